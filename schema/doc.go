// Package schema validates member writes against declared property rules.
//
// A Schema maps member names to Property definitions. Build one by hand,
// parse it from JSON, or derive it from a struct's `hookable` tags, then
// attach it to a builder so every write of a declared member is checked:
//
//	s, err := schema.FromStruct(Account{})
//	if err != nil {
//		return err
//	}
//	v, err := schema.NewValidator(s)
//	if err != nil {
//		return err
//	}
//	regs, err := schema.Attach(hooks.MustTo(accountType), v)
//
// Supported rules follow JSON Schema naming: type, format (email, uri, uuid,
// date, date-time), pattern, minLength, maxLength, minimum, maximum, enum,
// items, and properties/required for nested objects.
package schema
