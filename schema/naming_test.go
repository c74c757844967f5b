package schema

import (
	"testing"
)

func TestToDBName(t *testing.T) {
	var maps = map[string]string{
		"":                          "",
		"x":                         "x",
		"X":                         "x",
		"userRestrictions":          "user_restrictions",
		"ThisIsATest":               "this_is_a_test",
		"PFAndESI":                  "pf_and_esi",
		"AbcAndJkl":                 "abc_and_jkl",
		"EmployeeID":                "employee_id",
		"SKU_ID":                    "sku_id",
		"FieldX":                    "field_x",
		"HTTPAndSMTP":               "http_and_smtp",
		"HTTPServerHandlerForURLID": "http_server_handler_for_url_id",
		"UUID":                      "uuid",
		"HTTPURL":                   "http_url",
		"HTTP_URL":                  "http_url",
		"SHA256Hash":                "sha256_hash",
		"SHA256HASH":                "sha256_hash",
		"PostalAddressLine2":        "postal_address_line2",
	}

	for key, value := range maps {
		if toDBName(key) != value {
			t.Errorf("%v toName should equal %v, but got %v", key, value, toDBName(key))
		}
	}
}

func TestNamingStrategy(t *testing.T) {
	ns := NamingStrategy{TablePrefix: "app_"}

	if name := ns.TableName("PostalAddress"); name != "app_postal_addresses" {
		t.Errorf("table name should be app_postal_addresses, but got %v", name)
	}
	if name := ns.TypeName("Addresses"); name != "app_address" {
		t.Errorf("type name should be app_address, but got %v", name)
	}
	if name := ns.ColumnName("", "ZipCode"); name != "zip_code" {
		t.Errorf("column name should be zip_code, but got %v", name)
	}

	ns = NamingStrategy{SingularTable: true, NoLowerCase: true}
	if name := ns.TableName("PostalAddress"); name != "PostalAddress" {
		t.Errorf("table name should be PostalAddress, but got %v", name)
	}
}
