package discount

import "minishop/internal/model"

// State is where a code sits in its one-shot lifecycle relative to the counters.
type State int

const (
	// Available codes target exactly the next relevant order number.
	Available State = iota
	// Used codes have been consumed by an order.
	Used
	// Expired codes target an order number that has already passed.
	// Counters only grow, so expiry is terminal.
	Expired
	// Upcoming codes target an order number not reached yet.
	Upcoming
)

func (s State) String() string {
	switch s {
	case Available:
		return "available"
	case Used:
		return "used"
	case Expired:
		return "expired"
	default:
		return "upcoming"
	}
}

// Classify places a code given the user's and the store's next order numbers.
func Classify(dc model.DiscountCode, nextOrderNumber, nextGlobalOrderNumber int) State {
	if dc.Used() || dc.IsUsed {
		return Used
	}

	next := nextOrderNumber
	if dc.Global() {
		next = nextGlobalOrderNumber
	}

	switch {
	case dc.OrderNumber == next:
		return Available
	case dc.OrderNumber < next:
		return Expired
	default:
		return Upcoming
	}
}

// Listing groups codes by state. Upcoming codes are not listed.
func Listing(codes []model.DiscountCode, nextOrderNumber, nextGlobalOrderNumber int) model.DiscountListing {
	listing := model.DiscountListing{
		Available:       []model.DiscountCode{},
		Used:            []model.DiscountCode{},
		Expired:         []model.DiscountCode{},
		NextOrderNumber: nextOrderNumber,
	}

	for _, dc := range codes {
		switch Classify(dc, nextOrderNumber, nextGlobalOrderNumber) {
		case Used:
			listing.Used = append(listing.Used, dc)
		case Expired:
			listing.Expired = append(listing.Expired, dc)
		case Available:
			listing.Available = append(listing.Available, dc)
		}
	}

	return listing
}
