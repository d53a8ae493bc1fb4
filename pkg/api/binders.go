package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrymomot/proposalkit/binder"
	"github.com/dmitrymomot/proposalkit/handler"
	"github.com/dmitrymomot/proposalkit/pkg/billing"
)

const maxWebhookBody = 1 << 20

func jsonBinder() handler.Bind  { return binder.JSON() }
func queryBinder() handler.Bind { return binder.Query() }
func pathBinder() handler.Bind  { return binder.Path() }

type webhookRequest struct {
	Payload   []byte
	Signature string
}

// webhookBinder keeps the body byte-for-byte; signature checks depend on it.
func webhookBinder() handler.Bind {
	return func(r *http.Request, v any) error {
		req, ok := v.(*webhookRequest)
		if !ok {
			return binder.ErrInvalidTarget
		}
		body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxWebhookBody))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return fmt.Errorf("%w: body exceeds %d bytes", billing.ErrInvalidWebhookPayload, maxWebhookBody)
			}
			return err
		}
		req.Payload = body
		req.Signature = r.Header.Get(billing.SignatureHeader)
		return nil
	}
}
