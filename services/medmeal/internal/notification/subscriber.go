package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/appetiteclub/medmeal/pkg/enums/diettype"
	"github.com/appetiteclub/medmeal/pkg/enums/orderstatus"
	"github.com/appetiteclub/medmeal/pkg/event"
	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"
)

// Subscriber turns ledger and registry events into notifications.
type Subscriber struct {
	subscriber events.Subscriber
	emitter    *Emitter
	logger     aqm.Logger
}

func NewSubscriber(sub events.Subscriber, emitter *Emitter, logger aqm.Logger) *Subscriber {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Subscriber{
		subscriber: sub,
		emitter:    emitter,
		logger:     logger,
	}
}

func (s *Subscriber) Start(ctx context.Context) error {
	if s.subscriber == nil {
		return fmt.Errorf("notification subscriber not configured")
	}
	s.logger.Info("starting notification subscriber", "topics", event.OrdersTopic+","+event.PatientsTopic)
	if err := s.subscriber.Subscribe(ctx, event.OrdersTopic, s.handleOrderEvent); err != nil {
		return err
	}
	return s.subscriber.Subscribe(ctx, event.PatientsTopic, s.handlePatientEvent)
}

func (s *Subscriber) handleOrderEvent(ctx context.Context, msg []byte) error {
	var env event.Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		s.logger.Info("invalid order event", "error", err)
		return nil
	}

	switch env.EventType {
	case event.EventOrderPlaced:
		var evt event.OrderPlacedEvent
		if err := json.Unmarshal(msg, &evt); err != nil {
			s.logger.Info("invalid order placed event", "error", err)
			return nil
		}
		s.emitter.Emit(TypeOrder, "Đơn hàng đã gửi",
			fmt.Sprintf("Đơn #%s của bạn đã được bếp tiếp nhận.", evt.OrderID))

	case event.EventOrderStatusChanged:
		var evt event.OrderStatusChangedEvent
		if err := json.Unmarshal(msg, &evt); err != nil {
			s.logger.Info("invalid order status event", "error", err)
			return nil
		}
		s.emitter.Emit(TypeOrder, "Cập nhật đơn hàng",
			fmt.Sprintf("Đơn #%s chuyển từ %s sang %s", evt.OrderID,
				statusLabel(evt.PreviousStatus), statusLabel(evt.NewStatus)))

	default:
		s.logger.Debug("order event ignored", "event_type", env.EventType)
	}
	return nil
}

func (s *Subscriber) handlePatientEvent(ctx context.Context, msg []byte) error {
	var evt event.PatientDietChangedEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		s.logger.Info("invalid patient event", "error", err)
		return nil
	}
	if evt.EventType != event.EventPatientDietChanged {
		s.logger.Debug("patient event ignored", "event_type", evt.EventType)
		return nil
	}

	label := evt.NewDiet
	if d := diettype.ByName(evt.NewDiet); d != nil {
		label = d.Label()
	}
	s.emitter.Emit(TypeMedical, "Đổi chế độ ăn",
		fmt.Sprintf("Bác sĩ đã chuyển bạn sang: %s", label))
	return nil
}

func statusLabel(name string) string {
	if s := orderstatus.ByName(name); s != nil {
		return s.Label()
	}
	return name
}
