package enum

// ItemType discriminates checkout/order line items between shipped goods and
// digital gift vouchers.
type ItemType string

const (
	ItemTypeProduct ItemType = "product"
	ItemTypeVoucher ItemType = "voucher"
)

func (t ItemType) Valid() bool {
	return t == ItemTypeProduct || t == ItemTypeVoucher
}
