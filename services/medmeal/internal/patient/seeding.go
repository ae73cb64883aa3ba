package patient

import (
	"context"

	"github.com/appetiteclub/medmeal/pkg/enums/diettype"
	"github.com/aquamarinepk/aqm/seed"
)

// Seeds returns the ward and patient fixtures loaded at startup.
func Seeds(registry *Registry) []seed.Seed {
	return []seed.Seed{
		{
			ID:          "2025-01-10_patient_wards",
			Description: "Load hospital wards",
			Run: func(ctx context.Context) error {
				for _, w := range DemoWards() {
					registry.AddWard(w)
				}
				return nil
			},
		},
		{
			ID:          "2025-01-10_patient_demo_patients",
			Description: "Admit demo patients to the general internal medicine ward",
			Run: func(ctx context.Context) error {
				for _, p := range DemoPatients() {
					if err := registry.Add(p); err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}

func DemoWards() []Ward {
	return []Ward{
		{ID: "W1", Name: "Khoa Nội Tổng Hợp"},
		{ID: "W2", Name: "Khoa Ngoại Chấn Thương"},
		{ID: "W3", Name: "Khoa Tim Mạch"},
	}
}

func DemoPatients() []Patient {
	return []Patient{
		{
			ID:          "P1",
			Name:        "Nguyễn Văn A",
			Room:        "301",
			Bed:         "B1",
			DietType:    diettype.Diets.Standard,
			WardID:      "W1",
			OrderStatus: OrderStatusOrdered,
		},
		{
			ID:          "P2",
			Name:        "Trần Thị B",
			Room:        "301",
			Bed:         "B2",
			DietType:    diettype.Diets.Diabetic,
			WardID:      "W1",
			OrderStatus: OrderStatusOrdered,
			MedicalNote: "Tránh đường tuyệt đối",
		},
		{
			ID:          "P3",
			Name:        "Lê Văn C",
			Room:        "305",
			Bed:         "B1",
			DietType:    diettype.Diets.Liquid,
			WardID:      "W1",
			OrderStatus: OrderStatusNone,
		},
	}
}
