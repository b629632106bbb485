// internals/features/notifications/service/dispatcher.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"gerejaku_backend/internals/configs"
)

type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

var ErrChannelNotConfigured = errors.New("channel notifikasi belum dikonfigurasi")

// Dispatcher: klien keluar ke provider SMS/email. Fire-and-forget dari
// sudut pandang core — kegagalan di sini tidak boleh membatalkan
// keputusan attendance/contact mana pun; caller cukup mencatat log.
type Dispatcher struct {
	client   *resty.Client
	smsURL   string
	emailURL string
	apiKey   string
}

func NewDispatcher() *Dispatcher {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &Dispatcher{
		client:   client,
		smsURL:   configs.GetEnv("NOTIFY_SMS_URL"),
		emailURL: configs.GetEnv("NOTIFY_EMAIL_URL"),
		apiKey:   configs.GetEnv("NOTIFY_API_KEY"),
	}
}

type sendPayload struct {
	TenantID  string `json:"tenant_id"`
	Recipient string `json:"recipient"`
	Content   string `json:"content"`
}

// Send mengirim satu pesan. delivered = nil, failed = error.
func (d *Dispatcher) Send(ctx context.Context, tenantID uuid.UUID, channel Channel, recipient, content string) error {
	var url string
	switch channel {
	case ChannelSMS:
		url = d.smsURL
	case ChannelEmail:
		url = d.emailURL
	default:
		return fmt.Errorf("channel tidak dikenal: %s", channel)
	}
	if url == "" {
		return ErrChannelNotConfigured
	}

	resp, err := d.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+d.apiKey).
		SetBody(sendPayload{
			TenantID:  tenantID.String(),
			Recipient: recipient,
			Content:   content,
		}).
		Post(url)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("provider %s balas status %d", channel, resp.StatusCode())
	}

	log.Printf("[NOTIFY] %s terkirim ke %s (tenant=%s)", channel, recipient, tenantID)
	return nil
}
