package notification

import (
	"context"

	"github.com/aquamarinepk/aqm/seed"
)

func Seeds(emitter *Emitter) []seed.Seed {
	return []seed.Seed{
		{
			ID:          "2025-01-10_notification_welcome",
			Description: "Greet users with a system notification",
			Run: func(ctx context.Context) error {
				emitter.Emit(TypeSystem, "Chào mừng bạn", "Hệ thống đặt suất ăn MedMeal đã sẵn sàng phục vụ bạn.")
				return nil
			},
		},
	}
}
