// Package schema types the string values of a location: route parameters and
// query string entries.
//
// A Schema maps names to Types. Validation parses each raw value with its type and
// returns the typed values, or every failure at once:
//
//	s := schema.Schema{
//	    "id":   schema.Int(),
//	    "tags": schema.Slice(schema.String()),
//	    "page": schema.Optional(schema.Int()),
//	}
//
//	typed, err := schema.Validate(s, loc.Query)
//	if err != nil {
//	    // *schema.AggregateError listing each bad field
//	}
//
// Schemas are usually written as type strings in route tables:
//
//	query:
//	  page: int?
//	  tags: "[string]"
//
// Supported names are string, int, float, bool, [T] for comma separated lists,
// and a trailing ? for optional fields.
package schema
