package lark

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/garyjia/school-leave/internal/application/port"
	lark "github.com/larksuite/oapi-sdk-go/v3"
	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"
	"go.uber.org/zap"
)

const defaultReceiveIDType = "chat_id"

// Messenger sends plain-text notifications through the Lark IM API
type Messenger struct {
	messages      messageCreator
	receiveIDType string
	logger        *zap.Logger
}

// NewMessenger creates a messenger over an SDK client
func NewMessenger(client *lark.Client, cfg Config, logger *zap.Logger) *Messenger {
	return newMessenger(client.Im.Message, cfg, logger)
}

func newMessenger(messages messageCreator, cfg Config, logger *zap.Logger) *Messenger {
	idType := cfg.ReceiveIDType
	if idType == "" {
		idType = defaultReceiveIDType
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Messenger{
		messages:      messages,
		receiveIDType: idType,
		logger:        logger,
	}
}

var _ port.MessageSender = (*Messenger)(nil)

// SendText posts text to receiveID
func (m *Messenger) SendText(ctx context.Context, receiveID string, text string) error {
	if receiveID == "" {
		return errors.New("receive id cannot be empty")
	}
	if text == "" {
		return errors.New("text cannot be empty")
	}

	body, err := textMessageBody(receiveID, text)
	if err != nil {
		return err
	}

	req := larkim.NewCreateMessageReqBuilder().
		ReceiveIdType(m.receiveIDType).
		Body(body).
		Build()

	resp, err := m.messages.Create(ctx, req)
	if err != nil {
		m.logger.Error("Failed to send message",
			zap.String("receive_id", receiveID),
			zap.Error(err))
		return fmt.Errorf("failed to send message: %w", err)
	}

	if !resp.Success() {
		m.logger.Error("Lark API returned failure",
			zap.String("receive_id", receiveID),
			zap.Int("code", resp.Code),
			zap.String("msg", resp.Msg))
		return fmt.Errorf("lark API error: code=%d, msg=%s", resp.Code, resp.Msg)
	}

	messageID := ""
	if resp.Data != nil && resp.Data.MessageId != nil {
		messageID = *resp.Data.MessageId
	}
	m.logger.Info("Message sent",
		zap.String("message_id", messageID),
		zap.String("receive_id", receiveID))

	return nil
}

// textMessageBody builds the create-message body of a plain-text message
func textMessageBody(receiveID, text string) (*larkim.CreateMessageReqBody, error) {
	content, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}

	return larkim.NewCreateMessageReqBodyBuilder().
		ReceiveId(receiveID).
		MsgType("text").
		Content(string(content)).
		Build(), nil
}
