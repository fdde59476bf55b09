package enums

import "fmt"

// ProductFactory is the laptop manufacturer a product is filed under.
type ProductFactory string

const (
	ProductFactoryApple  ProductFactory = "APPLE"
	ProductFactoryAsus   ProductFactory = "ASUS"
	ProductFactoryLenovo ProductFactory = "LENOVO"
	ProductFactoryDell   ProductFactory = "DELL"
	ProductFactoryLG     ProductFactory = "LG"
	ProductFactoryAcer   ProductFactory = "ACER"
)

var productFactoryLabels = []struct {
	value ProductFactory
	label string
}{
	{ProductFactoryApple, "Apple (MacBook)"},
	{ProductFactoryAsus, "Asus"},
	{ProductFactoryLenovo, "Lenovo"},
	{ProductFactoryDell, "Dell"},
	{ProductFactoryLG, "LG"},
	{ProductFactoryAcer, "Acer"},
}

// ProductFactories lists the known manufacturers in display order.
func ProductFactories() []ProductFactory {
	out := make([]ProductFactory, 0, len(productFactoryLabels))
	for _, entry := range productFactoryLabels {
		out = append(out, entry.value)
	}
	return out
}

func (f ProductFactory) String() string {
	return string(f)
}

// Label returns the human-facing manufacturer name.
func (f ProductFactory) Label() string {
	for _, entry := range productFactoryLabels {
		if entry.value == f {
			return entry.label
		}
	}
	return string(f)
}

// IsValid reports whether the value is a known ProductFactory.
func (f ProductFactory) IsValid() bool {
	for _, entry := range productFactoryLabels {
		if entry.value == f {
			return true
		}
	}
	return false
}

// ParseProductFactory converts raw input into a ProductFactory.
func ParseProductFactory(value string) (ProductFactory, error) {
	candidate := ProductFactory(value)
	if !candidate.IsValid() {
		return "", fmt.Errorf("invalid product factory %q", value)
	}
	return candidate, nil
}

// ProductTarget is the customer segment a laptop is marketed to.
type ProductTarget string

const (
	ProductTargetGaming    ProductTarget = "GAMING"
	ProductTargetOffice    ProductTarget = "SINHVIEN-VANPHONG"
	ProductTargetDesign    ProductTarget = "THIET-KE-DO-HOA"
	ProductTargetThinLight ProductTarget = "MONG-NHE"
	ProductTargetBusiness  ProductTarget = "DOANH-NHAN"
)

var productTargetLabels = []struct {
	value ProductTarget
	label string
}{
	{ProductTargetGaming, "Gaming"},
	{ProductTargetOffice, "Sinh viên - Văn phòng"},
	{ProductTargetDesign, "Thiết kế đồ họa"},
	{ProductTargetThinLight, "Mỏng nhẹ"},
	{ProductTargetBusiness, "Doanh nhân"},
}

// ProductTargets lists the known segments in display order.
func ProductTargets() []ProductTarget {
	out := make([]ProductTarget, 0, len(productTargetLabels))
	for _, entry := range productTargetLabels {
		out = append(out, entry.value)
	}
	return out
}

func (t ProductTarget) String() string {
	return string(t)
}

func (t ProductTarget) Label() string {
	for _, entry := range productTargetLabels {
		if entry.value == t {
			return entry.label
		}
	}
	return string(t)
}

func (t ProductTarget) IsValid() bool {
	for _, entry := range productTargetLabels {
		if entry.value == t {
			return true
		}
	}
	return false
}

func ParseProductTarget(value string) (ProductTarget, error) {
	candidate := ProductTarget(value)
	if !candidate.IsValid() {
		return "", fmt.Errorf("invalid product target %q", value)
	}
	return candidate, nil
}
