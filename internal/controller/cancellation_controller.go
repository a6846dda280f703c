package controller

import (
	"errors"

	"cancellation-flow-be/internal/dto"
	"cancellation-flow-be/internal/pkg/serverutils"
	"cancellation-flow-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ICancellationController interface {
	RegisterRoutes(r fiber.Router)
	Initialize(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
	GetVariantInfo(ctx *fiber.Ctx) error
	SubmitJobResponse(ctx *fiber.Ctx) error
	SubmitSurvey(ctx *fiber.Ctx) error
	SubmitFeedback(ctx *fiber.Ctx) error
	SubmitVisa(ctx *fiber.Ctx) error
	SubmitDownsellDecision(ctx *fiber.Ctx) error
	SubmitSurveyOffer(ctx *fiber.Ctx) error
	SubmitReason(ctx *fiber.Ctx) error
	Finish(ctx *fiber.Ctx) error
	Back(ctx *fiber.Ctx) error
	Abandon(ctx *fiber.Ctx) error
}

type cancellationController struct {
	cancellationService service.ICancellationService
}

func NewCancellationController(cancellationService service.ICancellationService) ICancellationController {
	return &cancellationController{
		cancellationService: cancellationService,
	}
}

func (c *cancellationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/cancellation/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("initialize", c.Initialize)
	h.Get("session", c.GetSession)
	h.Get("variant-info", c.GetVariantInfo)
	h.Post("step/job-response", c.SubmitJobResponse)
	h.Post("step/survey", c.SubmitSurvey)
	h.Post("step/feedback", c.SubmitFeedback)
	h.Post("step/visa", c.SubmitVisa)
	h.Post("step/downsell", c.SubmitDownsellDecision)
	h.Post("step/survey-offer", c.SubmitSurveyOffer)
	h.Post("step/reason", c.SubmitReason)
	h.Post("finish", c.Finish)
	h.Post("back", c.Back)
	h.Post("abandon", c.Abandon)
}

func (c *cancellationController) Initialize(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	res, err := c.cancellationService.Initialize(ctx.Context(), userId)
	if err != nil {
		return flowErrorResponse(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success initialize cancellation flow", res))
}

func (c *cancellationController) GetSession(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	res, err := c.cancellationService.GetSession(ctx.Context(), userId)
	if err != nil {
		return flowErrorResponse(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show cancellation session", res))
}

func (c *cancellationController) GetVariantInfo(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	res, err := c.cancellationService.GetVariantInfo(ctx.Context(), userId)
	if err != nil {
		return flowErrorResponse(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show variant info", res))
}

func (c *cancellationController) SubmitJobResponse(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	var req dto.JobResponseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.cancellationService.SubmitJobResponse(ctx.Context(), userId, &req)
	if err != nil {
		return flowErrorResponse(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success submit job response", res))
}

func (c *cancellationController) SubmitSurvey(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	var req dto.SurveyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.cancellationService.SubmitSurvey(ctx.Context(), userId, &req)
	if err != nil {
		return flowErrorResponse(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success submit survey", res))
}

func (c *cancellationController) SubmitFeedback(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	var req dto.FeedbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.cancellationService.SubmitFeedback(ctx.Context(), userId, &req)
	if err != nil {
		return flowErrorResponse(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success submit feedback", res))
}

func (c *cancellationController) SubmitVisa(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	var req dto.VisaRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.cancellationService.SubmitVisa(ctx.Context(), userId, &req)
	if err != nil {
		return flowErrorResponse(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success submit visa answer", res))
}

func (c *cancellationController) SubmitDownsellDecision(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	var req dto.DownsellDecisionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.cancellationService.SubmitDownsellDecision(ctx.Context(), userId, &req)
	if err != nil {
		return flowErrorResponse(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success submit downsell decision", res))
}

func (c *cancellationController) SubmitSurveyOffer(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	var req dto.SurveyOfferRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.cancellationService.SubmitSurveyOffer(ctx.Context(), userId, &req)
	if err != nil {
		return flowErrorResponse(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success submit job search survey", res))
}

func (c *cancellationController) SubmitReason(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	var req dto.ReasonRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.cancellationService.SubmitReason(ctx.Context(), userId, &req)
	if err != nil {
		return flowErrorResponse(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success submit cancellation reason", res))
}

func (c *cancellationController) Finish(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	res, err := c.cancellationService.Finish(ctx.Context(), userId)
	if err != nil {
		return flowErrorResponse(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success finish step", res))
}

func (c *cancellationController) Back(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	res, err := c.cancellationService.Back(ctx.Context(), userId)
	if err != nil {
		return flowErrorResponse(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success navigate back", res))
}

func (c *cancellationController) Abandon(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	if err := c.cancellationService.Abandon(ctx.Context(), userId); err != nil {
		return flowErrorResponse(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success abandon cancellation flow", nil))
}

func currentUserId(ctx *fiber.Ctx) uuid.UUID {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	return userId
}

// flowErrorResponse maps service error codes onto HTTP statuses so the client
// can distinguish retryable failures from validation rejections.
func flowErrorResponse(ctx *fiber.Ctx, err error) error {
	var flowErr *service.FlowError
	if !errors.As(err, &flowErr) {
		return err
	}

	status := fiber.StatusInternalServerError
	switch flowErr.Code {
	case service.CodeValidationFailed, service.CodeInvalidTransition:
		status = fiber.StatusBadRequest
	case service.CodeSessionNotFound:
		status = fiber.StatusNotFound
	case service.CodeRateLimited:
		status = fiber.StatusTooManyRequests
	case service.CodeInitializationFailed:
		status = fiber.StatusServiceUnavailable
	}

	return ctx.Status(status).JSON(serverutils.CodedErrorResponse(flowErr.Code, flowErr.Message))
}
