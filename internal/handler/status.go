package handler

import (
	"net/http"

	"github.com/Payphone-Digital/hospital-registry/internal/constants"
	ctxutil "github.com/Payphone-Digital/hospital-registry/pkg/context"
	"github.com/gin-gonic/gin"
)

type StatusHandler struct {
	reporter StatusReporter
}

func NewStatusHandler(reporter StatusReporter) *StatusHandler {
	return &StatusHandler{reporter: reporter}
}

// Status reports account counts: admins and hospitals per status.
func (h *StatusHandler) Status(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Status")

	summary, err := h.reporter.Summary(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgStatusRetrieved, summary))
}
