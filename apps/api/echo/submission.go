package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ntic/scicon/core/submission"
)

type (
	submissionApi struct {
		svc      submission.Service
		validate *validator.Validate
	}

	// WithdrawRequest carries the author's confirmation.
	WithdrawRequest struct {
		Confirm bool `json:"confirm"`
	}

	// ListResponse is a filtered list along with the workspace counters.
	ListResponse struct {
		Results  []submission.Submission `json:"results"`
		Counters submission.Counters     `json:"counters"`
	}
)

func registerSubmissionAPI(g *echo.Group, svc submission.Service, validate *validator.Validate) {
	api := submissionApi{
		svc:      svc,
		validate: validate,
	}

	sg := g.Group("/submissions")
	sg.GET("", api.query)
	sg.POST("", api.create)
	sg.GET("/stats", api.stats)
	sg.GET("/events", api.events)

	// detail endpoints
	sg.GET("/:id", api.retrieve)
	sg.PUT("/:id", api.update)
	sg.POST("/:id/submit", api.submit)
	sg.POST("/:id/resubmit", api.resubmit)
	sg.POST("/:id/withdraw", api.withdraw)
}

// Handlers

func (api *submissionApi) query(ctx echo.Context) error {
	var qf submission.QueryFilter
	if err := ctx.Bind(&qf); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	if err := qf.Validate(api.validate); err != nil {
		return err
	}

	c := ctx.Request().Context()
	subs, err := api.svc.Query(c, qf.Filter())
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	counters, err := api.svc.Counters(c)
	if err != nil {
		return errors.Wrap(err, "counting submissions")
	}
	return ctx.JSON(http.StatusOK, ListResponse{Results: subs, Counters: counters})
}

func (api *submissionApi) stats(ctx echo.Context) error {
	counters, err := api.svc.Counters(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "counting submissions")
	}
	return ctx.JSON(http.StatusOK, counters)
}

func (api *submissionApi) events(ctx echo.Context) error {
	events, err := api.svc.Events(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing events")
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *submissionApi) create(ctx echo.Context) error {
	var data submission.NewSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubmission")
	}
	c := ctx.Request().Context()
	if err := data.Validate(c, api.validate, api.svc); err != nil {
		return err
	}

	sub, err := api.svc.Create(c, data)
	if err != nil {
		return errors.Wrap(err, "creating submission")
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *submissionApi) retrieve(ctx echo.Context) error {
	sub, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "retrieving submission")
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *submissionApi) bindUpdate(ctx echo.Context) (submission.Submission, submission.UpdateSubmission, error) {
	var data submission.UpdateSubmission
	c := ctx.Request().Context()

	sub, err := api.svc.Get(c, ctx.Param("id"))
	if err != nil {
		return sub, data, errors.Wrap(err, "retrieving submission")
	}
	if err := ctx.Bind(&data); err != nil {
		return sub, data, errors.Wrap(err, "binding to UpdateSubmission")
	}
	if err := data.Validate(c, api.validate, api.svc, sub); err != nil {
		return sub, data, err
	}
	return sub, data, nil
}

func (api *submissionApi) update(ctx echo.Context) error {
	sub, data, err := api.bindUpdate(ctx)
	if err != nil {
		return err
	}
	if sub, err = api.svc.UpdateDraft(ctx.Request().Context(), sub.ID, data); err != nil {
		return errors.Wrap(err, "updating draft")
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *submissionApi) submit(ctx echo.Context) error {
	sub, err := api.svc.Submit(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "submitting draft")
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *submissionApi) resubmit(ctx echo.Context) error {
	sub, data, err := api.bindUpdate(ctx)
	if err != nil {
		return err
	}
	if sub, err = api.svc.Resubmit(ctx.Request().Context(), sub.ID, data); err != nil {
		return errors.Wrap(err, "resubmitting")
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *submissionApi) withdraw(ctx echo.Context) error {
	var data WithdrawRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to WithdrawRequest")
	}

	confirm := func(submission.Submission) bool { return data.Confirm }
	sub, err := api.svc.Withdraw(ctx.Request().Context(), ctx.Param("id"), confirm)
	if err != nil {
		return errors.Wrap(err, "withdrawing submission")
	}
	return ctx.JSON(http.StatusOK, sub)
}
