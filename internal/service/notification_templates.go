package service

const (
	tmplAdminWelcome       = "admin_welcome"
	tmplHospitalRegistered = "hospital_registered"
	tmplHospitalApproved   = "hospital_approved"
	tmplHospitalRejected   = "hospital_rejected"
)

// Rendered with html/template plus sprig functions.
const emailTemplates = `
{{define "layout_start"}}<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
<div style="max-width: 600px; margin: 0 auto; padding: 20px;">{{end}}

{{define "layout_end"}}<p>Best regards,<br>{{.AppName}} Team</p>
</div>
</body>
</html>{{end}}

{{define "admin_welcome"}}{{template "layout_start" .}}
<h2 style="color: #007bff;">Welcome to {{.AppName}}</h2>
<p>Dear {{.Name | trim | default "Administrator"}},</p>
<p>Your administrator account has been successfully created.</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><a href="{{.AppURL}}/admin/login">Login Now</a></p>
{{template "layout_end" .}}{{end}}

{{define "hospital_registered"}}{{template "layout_start" .}}
<h2 style="color: #007bff;">Registration Received</h2>
<p>Dear {{.Name}},</p>
<p>Thank you for registering with {{.AppName}}.</p>
<p>Your application is currently <strong>pending approval</strong> by our administrative team. You will receive an email notification once your registration has been reviewed.</p>
<p>This process typically takes 1-2 business days.</p>
{{template "layout_end" .}}{{end}}

{{define "hospital_approved"}}{{template "layout_start" .}}
<h2 style="color: #28a745;">Registration Approved!</h2>
<p>Dear <strong>{{.Name}}</strong>,</p>
<p>We are pleased to inform you that your hospital registration has been <strong>approved</strong> by our administrative team.</p>
<ul>
<li><strong>Hospital Name:</strong> {{.Name}}</li>
<li><strong>Email:</strong> {{.Email}}</li>
<li><strong>Approval Date:</strong> {{.Date | date "January 02, 2006"}}</li>
</ul>
<p><a href="{{.AppURL}}/hospital/login">Login to Your Account</a></p>
{{template "layout_end" .}}{{end}}

{{define "hospital_rejected"}}{{template "layout_start" .}}
<h2 style="color: #dc3545;">Registration Status Update</h2>
<p>Dear <strong>{{.Name}}</strong>,</p>
<p>Thank you for your interest in joining our Hospital Management System. After careful review, we regret to inform you that we are unable to approve your registration at this time.</p>
{{- with .Reason | trim}}
<div style="background: #fff3cd; border-left: 4px solid #ffc107; padding: 15px; margin: 20px 0;">
<strong>Reason:</strong><br>{{.}}
</div>
{{- end}}
<p>If you believe this decision was made in error, please contact our support team.</p>
{{template "layout_end" .}}{{end}}
`
