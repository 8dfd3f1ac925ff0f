package service

import (
	"encoding/json"
	"strings"

	"github.com/Payphone-Digital/hospital-registry/internal/dto"
	"github.com/Payphone-Digital/hospital-registry/internal/model"
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toAdminResponse(a *model.Admin) dto.AdminResponse {
	return dto.AdminResponse{
		ID:        a.ID,
		FullName:  a.FullName,
		Email:     a.Email,
		IsActive:  a.IsActive,
		LastLogin: a.LastLogin,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func toHospitalResponse(h *model.Hospital) dto.HospitalResponse {
	return dto.HospitalResponse{
		ID:              h.ID,
		HospitalName:    h.HospitalName,
		HospitalAddress: h.HospitalAddress,
		Email:           h.Email,
		PhoneNumber:     h.PhoneNumber,
		Status:          string(h.Status),
		IsActive:        h.IsActive,
		ApprovedBy:      h.ApprovedBy,
		ApprovedAt:      h.ApprovedAt,
		RejectionReason: h.RejectionReason,
		LastLogin:       h.LastLogin,
		CreatedAt:       h.CreatedAt,
		UpdatedAt:       h.UpdatedAt,
	}
}

func toAuditLogResponse(l *model.AuditLog) dto.AuditLogResponse {
	resp := dto.AuditLogResponse{
		ID:         l.ID,
		UserType:   l.UserType,
		UserID:     l.UserID,
		Action:     l.Action,
		EntityType: l.EntityType,
		EntityID:   l.EntityID,
		IPAddress:  l.IPAddress,
		UserAgent:  l.UserAgent,
		CreatedAt:  l.CreatedAt,
	}
	if len(l.Details) > 0 {
		var details map[string]any
		if err := json.Unmarshal(l.Details, &details); err == nil {
			resp.Details = details
		}
	}
	return resp
}
