package sqldialect

import (
	"gorm.io/sqldialect/dialect"
	"gorm.io/sqldialect/errtranslator"
)

// TranslateErr classifies err with the translator of a vendor or driver
// name, returning err itself when it is not recognised
func TranslateErr(vendor string, err error) error {
	if v, parseErr := dialect.ParseVendor(vendor); parseErr == nil {
		vendor = string(v)
	}
	return errtranslator.For(vendor).Translate(err)
}
