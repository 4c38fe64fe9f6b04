package invoice

import "strconv"

// validate checks the cross-field rules of an assembled invoice.
//
// Zero items are accepted only for a document that states a zero grand
// total and, if it states an item count, a count of zero. Any other
// document without item rows is rejected with ErrNoLineItems.
func validate(inv *Invoice) error {
	if len(inv.Items) == 0 {
		if !inv.Totals.Total.IsZero() || (inv.ItemCount != nil && *inv.ItemCount != 0) {
			return &ParseError{Kind: KindValidation, Field: "items", Err: ErrNoLineItems}
		}
	}

	if inv.ItemCount != nil && *inv.ItemCount != len(inv.Items) {
		return &ParseError{
			Kind:  KindValidation,
			Field: FieldItemCount,
			Raw:   strconv.Itoa(*inv.ItemCount),
			Err:   ErrItemCountMismatch,
		}
	}

	if inv.DueDate != nil && inv.DueDate.Before(inv.IssueDate) {
		return &ParseError{Kind: KindValidation, Field: FieldDueDate, Raw: inv.DueDate.String(), Err: ErrDateOrder}
	}
	if inv.ShippingDate != nil && inv.ShippingDate.Before(inv.IssueDate) {
		return &ParseError{Kind: KindValidation, Field: FieldShippingDate, Raw: inv.ShippingDate.String(), Err: ErrDateOrder}
	}
	return nil
}
