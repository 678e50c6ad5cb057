package model

// SalesRecord is one row of the flat sales dataset. JSON keys keep the column
// headers of the source file because the frontend reads rows by those names.
type SalesRecord struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"-"`

	TransactionID string `gorm:"type:varchar(64);index;not null" json:"Transaction ID"`
	Date          string `gorm:"type:varchar(32);index;not null" json:"Date"`
	CustomerID    string `gorm:"type:varchar(64);not null" json:"Customer ID"`
	CustomerName  string `gorm:"type:varchar(255);not null" json:"Customer Name"`
	PhoneNumber   string `gorm:"type:varchar(32)" json:"Phone Number"`
	Gender        string `gorm:"type:varchar(32);index" json:"Gender"`
	Age           int    `gorm:"type:int;default:0;not null" json:"Age"`

	CustomerRegion  string `gorm:"type:varchar(100);index" json:"Customer Region"`
	CustomerType    string `gorm:"type:varchar(100)" json:"Customer Type"`
	ProductID       string `gorm:"type:varchar(64)" json:"Product ID"`
	ProductName     string `gorm:"type:varchar(255)" json:"Product Name"`
	Brand           string `gorm:"type:varchar(100)" json:"Brand"`
	ProductCategory string `gorm:"type:varchar(100);index" json:"Product Category"`
	Tags            string `gorm:"type:text" json:"Tags"`

	Quantity           int     `gorm:"type:int;default:0;not null" json:"Quantity"`
	PricePerUnit       float64 `gorm:"default:0;not null" json:"Price per Unit"`
	DiscountPercentage float64 `gorm:"default:0;not null" json:"Discount Percentage"`
	TotalAmount        float64 `gorm:"default:0;not null" json:"Total Amount"`
	FinalAmount        float64 `gorm:"default:0;not null" json:"Final Amount"`

	PaymentMethod string `gorm:"type:varchar(64);index" json:"Payment Method"`
	OrderStatus   string `gorm:"type:varchar(64)" json:"Order Status"`
	DeliveryType  string `gorm:"type:varchar(64)" json:"Delivery Type"`
	StoreID       string `gorm:"type:varchar(64)" json:"Store ID"`
	StoreLocation string `gorm:"type:varchar(100)" json:"Store Location"`
	SalespersonID string `gorm:"type:varchar(64)" json:"Salesperson ID"`
	EmployeeName  string `gorm:"type:varchar(255)" json:"Employee Name"`

	// Derived at import time so the store can filter and order exactly like
	// the in-process evaluator does.
	TagIndex string `gorm:"type:text" json:"-"`
	NameKey  []byte `json:"-"`

	// Seq is the position of the record in its source, 0-based. It breaks
	// ordering ties in both execution strategies.
	Seq int64 `gorm:"-" json:"-"`
}

// TableName pins the table name regardless of gorm's pluralization rules.
func (SalesRecord) TableName() string {
	return "sales"
}

// Column names of the source file, in file order.
const (
	ColTransactionID      = "Transaction ID"
	ColDate               = "Date"
	ColCustomerID         = "Customer ID"
	ColCustomerName       = "Customer Name"
	ColPhoneNumber        = "Phone Number"
	ColGender             = "Gender"
	ColAge                = "Age"
	ColCustomerRegion     = "Customer Region"
	ColCustomerType       = "Customer Type"
	ColProductID          = "Product ID"
	ColProductName        = "Product Name"
	ColBrand              = "Brand"
	ColProductCategory    = "Product Category"
	ColTags               = "Tags"
	ColQuantity           = "Quantity"
	ColPricePerUnit       = "Price per Unit"
	ColDiscountPercentage = "Discount Percentage"
	ColTotalAmount        = "Total Amount"
	ColFinalAmount        = "Final Amount"
	ColPaymentMethod      = "Payment Method"
	ColOrderStatus        = "Order Status"
	ColDeliveryType       = "Delivery Type"
	ColStoreID            = "Store ID"
	ColStoreLocation      = "Store Location"
	ColSalespersonID      = "Salesperson ID"
	ColEmployeeName       = "Employee Name"
)

// Columns lists every source column in file order.
var Columns = []string{
	ColTransactionID, ColDate, ColCustomerID, ColCustomerName, ColPhoneNumber,
	ColGender, ColAge, ColCustomerRegion, ColCustomerType, ColProductID, ColProductName,
	ColBrand, ColProductCategory, ColTags, ColQuantity, ColPricePerUnit,
	ColDiscountPercentage, ColTotalAmount, ColFinalAmount, ColPaymentMethod,
	ColOrderStatus, ColDeliveryType, ColStoreID, ColStoreLocation, ColSalespersonID, ColEmployeeName,
}

// RawRecord is an unvalidated row keyed by source column name. Values may be
// strings, numbers or nil depending on where the row came from.
type RawRecord map[string]any
