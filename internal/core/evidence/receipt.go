package evidence

import "regexp"

// receiptFormat is ECO-YYYY-XXXXXX: a 4-digit year and a 6-digit sequence.
var receiptFormat = regexp.MustCompile(`^ECO-\d{4}-\d{6}$`)

const (
	msgReceiptFormat  = "Invalid bill format. Use: ECO-YYYY-XXXXXX"
	msgUnknownReceipt = "This bill number doesn't contain your purchase. You can only return EcoMart items."
)

// ReceiptValidator checks receipt codes against the format rule and a
// whitelist of known codes.
type ReceiptValidator struct {
	known map[string]struct{}
}

// NewReceiptValidator creates a validator accepting the given codes.
func NewReceiptValidator(whitelist []string) *ReceiptValidator {
	known := make(map[string]struct{}, len(whitelist))
	for _, code := range whitelist {
		known[code] = struct{}{}
	}
	return &ReceiptValidator{known: known}
}

// ValidateReceipt returns nil for an empty code (the receipt is optional) or
// a whitelisted, well-formed code. Otherwise it returns a *ReceiptError.
// Matching is exact: no trimming, no case folding.
func (v *ReceiptValidator) ValidateReceipt(code string) error {
	if code == "" {
		return nil
	}
	if !receiptFormat.MatchString(code) {
		return &ReceiptError{Kind: ErrReceiptFormat, Code: code, Message: msgReceiptFormat}
	}
	if _, ok := v.known[code]; !ok {
		return &ReceiptError{Kind: ErrUnknownReceipt, Code: code, Message: msgUnknownReceipt}
	}
	return nil
}
