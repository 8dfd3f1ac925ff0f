package constants

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Standard Response Field Keys
const (
	// Envelope fields
	ResponseFieldSuccess   = "success"
	ResponseFieldMessage   = "message"
	ResponseFieldData      = "data"
	ResponseFieldCode      = "code"
	ResponseFieldErrors    = "errors"
	ResponseFieldTimestamp = "timestamp"

	// Pagination fields
	ResponseFieldTotal     = "total"
	ResponseFieldPage      = "page"
	ResponseFieldPageTotal = "page_total"
	ResponseFieldItems     = "items"
)

// Pagination Parameters Struct
type PaginationParams struct {
	Page   int // Page number from user request (default: 1)
	Limit  int // Limit per page from user request (default: 10)
	Offset int // Calculated offset (page - 1) * limit
}

// ParsePaginationParams parses basic pagination parameters (page, limit only)
func ParsePaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery(QueryParamPage, DefaultPage))
	limit, _ := strconv.Atoi(c.DefaultQuery(QueryParamLimit, DefaultLimit))

	if page < MinPage {
		page = MinPage
	}
	if limit < MinLimit {
		limit = MinLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// Response Format Functions
func BuildListResponse(total int64, page int, pageTotal int, items any) map[string]any {
	return map[string]any{
		ResponseFieldTotal:     total,
		ResponseFieldPage:      page,
		ResponseFieldPageTotal: pageTotal,
		ResponseFieldItems:     items,
	}
}

func BuildSuccessResponse(message string, data any) map[string]any {
	return map[string]any{
		ResponseFieldSuccess:   true,
		ResponseFieldMessage:   message,
		ResponseFieldData:      data,
		ResponseFieldTimestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// BuildErrorResponse builds the failure envelope. details is omitted when nil.
func BuildErrorResponse(message, code string, details any) map[string]any {
	response := map[string]any{
		ResponseFieldSuccess:   false,
		ResponseFieldMessage:   message,
		ResponseFieldTimestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if code != "" {
		response[ResponseFieldCode] = code
	}
	if details != nil {
		response[ResponseFieldErrors] = details
	}

	return response
}
