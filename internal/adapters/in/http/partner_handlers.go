package http

import (
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/pkg/tracing"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
)

// CreatePartner handles POST /api/v1/partners - registers a new delivery
// partner in the directory. The generated identifier is returned so the
// caller can manage the partner's flags right away.
func (s *Server) CreatePartner(ctx echo.Context) error {
	reqCtx, span := tracing.StartSpan(ctx.Request().Context(), "CreatePartnerHandler")
	defer span.End()

	var req NewPartnerRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Malformed request body",
		})
	}

	cmd, err := commands.NewCreatePartnerCommand(req.Name, req.Phone)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid partner data: " + err.Error(),
		})
	}

	span.SetAttributes(attribute.String("partner.id", cmd.PartnerID().String()))

	if handleErr := s.createPartnerHandler.Handle(reqCtx, cmd); handleErr != nil {
		return s.respondCommandError(ctx, handleErr)
	}

	return ctx.JSON(http.StatusCreated, CreatedPartnerResponse{
		ID: cmd.PartnerID().String(),
	})
}

// GetPartners handles GET /api/v1/partners - lists the delivery partner
// directory with activation and availability flags.
func (s *Server) GetPartners(ctx echo.Context) error {
	query := queries.NewGetAllPartnersQuery()

	partners, err := s.getAllPartnersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to load partners",
		})
	}

	response := make([]PartnerResponse, len(partners))
	for i, p := range partners {
		response[i] = PartnerResponse{
			ID:        p.ID.String(),
			Name:      p.Name,
			Phone:     p.Phone,
			Active:    p.Active,
			Available: p.Available,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// SetPartnerStatus handles PATCH /api/v1/partners/:partnerID/status - adjusts
// a partner's activation and availability flags. Either flag may be omitted
// to leave it untouched.
func (s *Server) SetPartnerStatus(ctx echo.Context) error {
	reqCtx, span := tracing.StartSpan(ctx.Request().Context(), "SetPartnerStatusHandler")
	defer span.End()

	partnerID, err := parseUUIDParam(ctx, "partnerID")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid partner ID",
		})
	}

	var req PartnerStatusRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Malformed request body",
		})
	}

	span.SetAttributes(attribute.String("partner.id", partnerID.String()))

	cmd, err := commands.NewSetPartnerStatusCommand(partnerID, req.Active, req.Available)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid partner status data: " + err.Error(),
		})
	}

	if handleErr := s.setPartnerStatusHandler.Handle(reqCtx, cmd); handleErr != nil {
		return s.respondCommandError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}
