package submission

import (
	"context"

	"github.com/ntic/scicon/core"
)

type serviceMock struct {
	service
}

// NewServiceMock returns a Service that sends its emails synchronously.
func NewServiceMock(store *Store, mailSvc core.EmailService, conf *core.Config, logger core.Logger) Service {
	return &serviceMock{
		service: service{
			store:   store,
			mailSvc: mailSvc,
			author:  conf.Author(),
			logger:  logger,
		},
	}
}

func (svc *serviceMock) Withdraw(ctx context.Context, id string, confirm ConfirmFunc) (Submission, error) {
	sub, changed, err := svc.withdraw(ctx, core.CleanString(id), confirm)
	if err != nil {
		return Submission{}, err
	}
	// run synchronously
	if changed {
		svc.sendWithdrawalMail(sub)
	}
	return sub, nil
}
