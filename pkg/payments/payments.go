package payments

// CheckoutLineItem is one purchasable line for a hosted checkout session.
// UnitAmount is expressed in the smallest currency unit.
type CheckoutLineItem struct {
	Name       string
	Image      string
	UnitAmount int64
	Quantity   int64
}

// CheckoutRequest carries everything needed to open a hosted session.
type CheckoutRequest struct {
	LineItems     []CheckoutLineItem
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// Session is the provider-neutral view of a hosted checkout session.
type Session struct {
	ID              string
	URL             string
	Paid            bool
	PaymentStatus   string
	PaymentIntentID string
	CustomerEmail   string
}

// Provider abstracts the hosted payment provider ("create session" and
// "retrieve session by id"). Calls are attempted once with no retry.
type Provider interface {
	CreateCheckoutSession(req CheckoutRequest) (*Session, error)
	GetCheckoutSession(id string) (*Session, error)
}
