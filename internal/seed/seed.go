// Package seed loads the demo catalog and the back-office account.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/laptopshop/internal/users"
	"github.com/angelmondragon/laptopshop/pkg/config"
	"github.com/angelmondragon/laptopshop/pkg/db"
	"github.com/angelmondragon/laptopshop/pkg/db/models"
	"github.com/angelmondragon/laptopshop/pkg/enums"
	"github.com/angelmondragon/laptopshop/pkg/logger"
	"github.com/angelmondragon/laptopshop/pkg/security"
	"gorm.io/gorm"
)

const adminPasswordLength = 16

// Options controls what Run writes.
type Options struct {
	AdminEmail    string
	AdminFullName string
	Password      config.PasswordConfig
}

// Result reports what Run created. AdminPassword is only set when the admin
// account was created by this run.
type Result struct {
	ProductsCreated int
	AdminCreated    bool
	AdminPassword   string
}

// Run inserts the demo products that are missing (matched by name) and the
// admin account when its email is free. It is safe to run repeatedly.
func Run(ctx context.Context, client *db.Client, logg *logger.Logger, opts Options) (*Result, error) {
	if client == nil {
		return nil, fmt.Errorf("db client is required")
	}

	result := &Result{}
	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		for _, product := range DemoProducts() {
			var count int64
			if err := tx.Model(&models.Product{}).Where("name = ?", product.Name).Count(&count).Error; err != nil {
				return fmt.Errorf("look up product %q: %w", product.Name, err)
			}
			if count > 0 {
				continue
			}
			if err := tx.Create(&product).Error; err != nil {
				return fmt.Errorf("seed product %q: %w", product.Name, err)
			}
			result.ProductsCreated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if email := strings.TrimSpace(opts.AdminEmail); email != "" {
		password, err := security.GeneratePassword(adminPasswordLength)
		if err != nil {
			return nil, err
		}
		hash, err := security.HashPassword(password, opts.Password)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		_, err = users.NewRepository(client.DB()).Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: hash,
			FullName:     opts.AdminFullName,
			Role:         enums.UserRoleAdmin,
		})
		switch {
		case errors.Is(err, users.ErrEmailTaken):
		case err != nil:
			return nil, fmt.Errorf("create admin: %w", err)
		default:
			result.AdminCreated = true
			result.AdminPassword = password
		}
	}

	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{
			"products_created": result.ProductsCreated,
			"admin_created":    result.AdminCreated,
		})
		logg.Info(ctx, "seed completed")
	}
	return result, nil
}

func strPtr(s string) *string { return &s }

// DemoProducts is the storefront's demo catalog.
func DemoProducts() []models.Product {
	return []models.Product{
		{
			Name:       "MacBook Air M2 13 inch 8GB/256GB",
			Price:      24_990_000,
			Image:      strPtr("macbook-air-m2.png"),
			ShortDesc:  "Chip Apple M2, màn Liquid Retina 13.6 inch",
			DetailDesc: "Thiết kế mỏng nhẹ 1.24kg, pin tới 18 giờ, không quạt tản nhiệt.",
			Quantity:   20,
			Factory:    enums.ProductFactoryApple.String(),
			Target:     enums.ProductTargetThinLight.String(),
		},
		{
			Name:       "ASUS TUF Gaming F15 FX507ZC4",
			Price:      19_990_000,
			Image:      strPtr("asus-tuf-f15.png"),
			ShortDesc:  "Core i5-12500H, RTX 3050 4GB, màn 144Hz",
			DetailDesc: "Độ bền chuẩn quân đội MIL-STD-810H, bàn phím RGB.",
			Quantity:   15,
			Factory:    enums.ProductFactoryAsus.String(),
			Target:     enums.ProductTargetGaming.String(),
		},
		{
			Name:       "ASUS Vivobook 15 X1504ZA",
			Price:      10_490_000,
			Image:      strPtr("asus-vivobook-15.png"),
			ShortDesc:  "Core i3-1215U, 8GB RAM, SSD 512GB",
			DetailDesc: "Laptop học tập văn phòng màn 15.6 inch Full HD.",
			Quantity:   30,
			Factory:    enums.ProductFactoryAsus.String(),
			Target:     enums.ProductTargetOffice.String(),
		},
		{
			Name:       "Lenovo ThinkPad E14 Gen 5",
			Price:      18_990_000,
			Image:      strPtr("thinkpad-e14.png"),
			ShortDesc:  "Core i5-1335U, 16GB RAM, bàn phím ThinkPad",
			DetailDesc: "Bảo mật vân tay, vỏ nhôm, chuẩn doanh nghiệp.",
			Quantity:   12,
			Factory:    enums.ProductFactoryLenovo.String(),
			Target:     enums.ProductTargetBusiness.String(),
		},
		{
			Name:       "Lenovo IdeaPad Slim 3",
			Price:      9_490_000,
			Image:      strPtr("ideapad-slim-3.png"),
			ShortDesc:  "Ryzen 5 7520U, 8GB RAM, SSD 512GB",
			DetailDesc: "Máy mỏng nhẹ giá tốt cho sinh viên.",
			Quantity:   25,
			Factory:    enums.ProductFactoryLenovo.String(),
			Target:     enums.ProductTargetOffice.String(),
		},
		{
			Name:       "Dell Inspiron 14 5430",
			Price:      15_000_000,
			Image:      strPtr("dell-inspiron-14.png"),
			ShortDesc:  "Core i5-1340P, 16GB RAM, màn 16:10",
			DetailDesc: "Vỏ nhôm, webcam FHD, pin bền cho dân văn phòng.",
			Quantity:   18,
			Factory:    enums.ProductFactoryDell.String(),
			Target:     enums.ProductTargetOffice.String(),
		},
		{
			Name:       "Dell XPS 13 Plus 9320",
			Price:      42_990_000,
			Image:      strPtr("dell-xps-13-plus.png"),
			ShortDesc:  "Core i7-1260P, màn OLED 3.5K cảm ứng",
			DetailDesc: "Thiết kế tối giản, touchpad ẩn, hàng phím chức năng cảm ứng.",
			Quantity:   5,
			Factory:    enums.ProductFactoryDell.String(),
			Target:     enums.ProductTargetDesign.String(),
		},
		{
			Name:       "LG Gram 16 2023",
			Price:      32_490_000,
			Image:      strPtr("lg-gram-16.png"),
			ShortDesc:  "Core i7-1360P, 1.19kg, màn 16 inch WQXGA",
			DetailDesc: "Màn hình lớn mà vẫn siêu nhẹ, pin 80Wh.",
			Quantity:   8,
			Factory:    enums.ProductFactoryLG.String(),
			Target:     enums.ProductTargetThinLight.String(),
		},
		{
			Name:       "Acer Nitro 5 AN515-58",
			Price:      20_000_000,
			Image:      strPtr("acer-nitro-5.png"),
			ShortDesc:  "Core i5-12450H, RTX 4050 6GB, màn 144Hz",
			DetailDesc: "Tản nhiệt kép, bàn phím 4 vùng LED.",
			Quantity:   10,
			Factory:    enums.ProductFactoryAcer.String(),
			Target:     enums.ProductTargetGaming.String(),
		},
		{
			Name:       "Acer Aspire 3 A315",
			Price:      8_990_000,
			Image:      strPtr("acer-aspire-3.png"),
			ShortDesc:  "Core i3-N305, 8GB RAM, SSD 256GB",
			DetailDesc: "Laptop cơ bản cho học tập và giải trí.",
			Quantity:   40,
			Factory:    enums.ProductFactoryAcer.String(),
			Target:     enums.ProductTargetOffice.String(),
		},
	}
}
