package odbc

// capabilities is spec §9's "small table of {product, capability-bit}
// pairs" replacing scattered string comparisons: the driver-product
// enumeration hard-codes Access/Excel quirks in the original source
// (no SQLPrimaryKeys, no SQLDescribeParam, no scrollable cursors); here
// Table.Open consults this table instead of comparing product name
// strings itself.
type capabilities struct {
	primaryKeys      bool
	describeParam    bool
	scrollableCursor bool
}

var defaultCapabilities = capabilities{primaryKeys: true, describeParam: true, scrollableCursor: true}

// productQuirks is keyed by the coarse Product enum from database.go.
// Only products with known limitations need an entry; anything absent
// falls back to defaultCapabilities.
var productQuirks = map[Product]capabilities{
	ProductMsAccess: {primaryKeys: false, describeParam: false, scrollableCursor: false},
	ProductExcel:    {primaryKeys: false, describeParam: false, scrollableCursor: false},
	ProductSQLite:   {primaryKeys: true, describeParam: false, scrollableCursor: false},
}

func capabilitiesFor(p Product) capabilities {
	if c, ok := productQuirks[p]; ok {
		return c
	}
	return defaultCapabilities
}
