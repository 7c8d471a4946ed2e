package types

import (
	"equityflow/num"
)

// Order is a single execution (entry or exit leg of a trade). It is immutable:
// the realized cost and the cost-adjusted net price are fixed at creation.
type Order struct {
	index     int
	side      Side
	price     num.Num
	amount    num.Num
	hasAmount bool
	cost      num.Num
	netPrice  num.Num
}

// NewOrder creates an order whose realized cost is computed by the given
// cost model at creation time. A nil model means zero cost.
func NewOrder(index int, side Side, price, amount num.Num, model CostModel) Order {
	cost := price.Context().Zero()
	if model != nil {
		cost = model.Calculate(price, amount)
	}
	return Order{
		index:     index,
		side:      side,
		price:     price,
		amount:    amount,
		hasAmount: true,
		cost:      cost,
		netPrice:  netPrice(side, price, amount, cost),
	}
}

// NewPriceOrder creates an informational order without an amount. Its cost
// is zero and its net price equals its raw price.
func NewPriceOrder(index int, side Side, price num.Num) Order {
	return Order{
		index:    index,
		side:     side,
		price:    price,
		cost:     price.Context().Zero(),
		netPrice: price,
	}
}

// netPrice spreads the order cost over the traded amount: buying gets more
// expensive per unit, selling nets less per unit.
func netPrice(side Side, price, amount, cost num.Num) num.Num {
	if cost.IsZero() || amount.IsZero() || amount.IsNaN() {
		return price
	}
	perUnit := cost.Div(amount)
	if side == SideTypeBuy {
		return price.Add(perUnit)
	}
	return price.Sub(perUnit)
}

func (o Order) Index() int {
	return o.index
}

func (o Order) Side() Side {
	return o.side
}

func (o Order) IsBuy() bool {
	return o.side == SideTypeBuy
}

func (o Order) IsSell() bool {
	return o.side == SideTypeSell
}

// Price is the raw execution price.
func (o Order) Price() num.Num {
	return o.price
}

// NetPrice is the execution price adjusted by the per-unit cost.
func (o Order) NetPrice() num.Num {
	return o.netPrice
}

// Amount reports the traded quantity, and false for informational orders
// that carry none.
func (o Order) Amount() (num.Num, bool) {
	return o.amount, o.hasAmount
}

// Cost is the absolute realized cost of the order.
func (o Order) Cost() num.Num {
	return o.cost
}

// Value is the traded value (price * amount), zero without an amount.
func (o Order) Value() num.Num {
	if !o.hasAmount {
		return o.price.Context().Zero()
	}
	return o.price.Mul(o.amount)
}
