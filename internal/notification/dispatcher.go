package notification

import (
	"context"
	"net/url"
	"strings"

	"github.com/alitto/pond/v2"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-asset-aggregator/internal/adapter"
	"github.com/feral-file/ff-asset-aggregator/internal/logger"
)

// Dispatcher pushes wake-up messages to display devices
//
//go:generate mockgen -source=dispatcher.go -destination=../mocks/dispatcher.go -package=mocks -mock_names=Dispatcher=MockDispatcher
type Dispatcher interface {
	// Dispatch sends a refresh message to every device address. Delivery is
	// fire-and-forget; per-device failures are logged, never returned.
	Dispatch(ctx context.Context, devices []string)
}

// WebhookDispatcher delivers device messages over the downstream
// notification server's webhook endpoint
type WebhookDispatcher struct {
	httpClient adapter.HTTPClient
	serverURL  string
	pool       pond.Pool
}

// NewWebhookDispatcher creates a new webhook dispatcher with a bounded
// delivery pool
func NewWebhookDispatcher(httpClient adapter.HTTPClient, serverURL string, poolSize int) *WebhookDispatcher {
	if poolSize <= 0 {
		poolSize = 20
	}
	return &WebhookDispatcher{
		httpClient: httpClient,
		serverURL:  strings.TrimSuffix(serverURL, "/"),
		pool:       pond.NewPool(poolSize),
	}
}

// Close drains in-flight deliveries
func (d *WebhookDispatcher) Close() {
	d.pool.StopAndWait()
}

// Dispatch sends a refresh message to every device address
func (d *WebhookDispatcher) Dispatch(ctx context.Context, devices []string) {
	if len(devices) == 0 {
		return
	}

	logger.InfoCtx(ctx, "Dispatching device notifications",
		zap.Int("devices", len(devices)),
		zap.Strings("addresses", devices),
	)

	for _, device := range devices {
		messageID := ulid.Make().String()
		endpoint := d.serverURL + "/nft/sendNFTMessage?address=" + url.QueryEscape(device)

		d.pool.Submit(func() {
			if _, err := d.httpClient.Post(ctx, endpoint, "", nil, nil); err != nil {
				logger.ErrorCtx(ctx, "Device notification delivery failed",
					zap.String("message_id", messageID),
					zap.String("address", device),
					zap.String("url", endpoint),
					zap.Error(err),
				)
				return
			}
			logger.InfoCtx(ctx, "Device notification delivered",
				zap.String("message_id", messageID),
				zap.String("address", device),
			)
		})
	}
}
