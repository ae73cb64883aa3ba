package catalog

import (
	"context"

	"github.com/appetiteclub/medmeal/pkg/enums/diettype"
	"github.com/appetiteclub/medmeal/pkg/enums/mealtype"
	"github.com/aquamarinepk/aqm/seed"
)

// Seeds returns the catalog fixtures loaded at startup.
func Seeds(store *Store) []seed.Seed {
	return []seed.Seed{
		{
			ID:          "2025-01-10_catalog_menu_items",
			Description: "Load the hospital kitchen menu",
			Run: func(ctx context.Context) error {
				for _, item := range DemoItems() {
					if err := store.Add(item); err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}

func DemoItems() []MenuItem {
	return []MenuItem{
		{
			ID:          "m1",
			Name:        "Cơm Gà Luộc Rau Củ",
			Description: "Thịt gà ta luộc, cơm gạo tẻ thơm, rau củ luộc thập cẩm.",
			Calories:    450,
			Protein:     25,
			Carbs:       60,
			Fat:         10,
			Price:       45000,
			Image:       "https://images.unsplash.com/photo-1604908176997-125f25cc6f3d?auto=format&fit=crop&q=80&w=400",
			DietType:    diettype.Diets.Standard,
			MealType:    mealtype.Meals.Lunch,
			Available:   true,
			InStock:     true,
		},
		{
			ID:          "m2",
			Name:        "Cơm Cá Thu Kho Tộ",
			Description: "Cá thu tươi kho tộ, cơm trắng, canh bí xanh.",
			Calories:    420,
			Protein:     22,
			Carbs:       55,
			Fat:         12,
			Price:       55000,
			Image:       "https://images.unsplash.com/photo-1519708227418-c8fd9a32b7a2?auto=format&fit=crop&q=80&w=400",
			DietType:    diettype.Diets.Standard,
			MealType:    mealtype.Meals.Dinner,
			Available:   true,
			InStock:     true,
		},
		{
			ID:          "m3",
			Name:        "Cháo Thịt Bằm Nấm Hương",
			Description: "Cháo loãng nấu kỹ, thịt nạc băm, nấm hương bổ dưỡng.",
			Calories:    250,
			Protein:     15,
			Carbs:       40,
			Fat:         5,
			Price:       35000,
			Image:       "https://images.unsplash.com/photo-1594911772125-07fc7a2d8d9f?auto=format&fit=crop&q=80&w=400",
			DietType:    diettype.Diets.Liquid,
			MealType:    mealtype.Meals.Breakfast,
			Available:   true,
			InStock:     true,
		},
	}
}
