package engine

import "stablesim/internal/model"

// runTransactions draws the configured number of senders without replacement
// and has each pay a uniformly chosen other household.
func (e *Engine) runTransactions() {
	n := len(e.pop.Households)
	if n < 2 {
		return
	}
	senders := e.params.TransactionsPerTick
	if senders > n {
		senders = n
	}
	for _, i := range e.rnd.Sample(senders, n) {
		// Drawing from [0, n-1) and shifting past the sender's own slot
		// picks a recipient uniformly among everyone else.
		j := e.rnd.Intn(n - 1)
		if j >= i {
			j++
		}
		e.transact(e.pop.Households[i], e.pop.Households[j])
	}
}

// transact moves the fixed amount from sender to recipient on one rail.
// When both rails hold more than the amount, the coin rail wins with
// probability utility/(utility+bankAttractiveness); a single funded rail is
// used as-is; with neither funded nothing happens. Every completed transfer
// updates the sender's learned utility, whichever rail carried it.
func (e *Engine) transact(from, to *model.Household) {
	coinFunded := from.CoinBalance > txAmount
	bankFunded := from.BankBalance > txAmount
	switch {
	case coinFunded && bankFunded:
		total := from.CoinUtility + e.params.BankAttractiveness
		if total > 0 && e.rnd.Float64() < from.CoinUtility/total {
			e.transferCoin(from, to)
		} else {
			e.transferBank(from, to)
		}
	case coinFunded:
		e.transferCoin(from, to)
	case bankFunded:
		e.transferBank(from, to)
	default:
		return
	}
	e.learn(from)
}

// transferBank debits amount plus fee from the sender's bank balance and
// credits the bare amount to the recipient's. The fee is burned. A balance
// between the amount and amount plus fee goes negative here and stays so.
func (e *Engine) transferBank(from, to *model.Household) {
	fee := txAmount * bankFeeRate
	from.BankBalance -= txAmount + fee
	to.BankBalance += txAmount
}

// transferCoin is the coin-rail counterpart of transferBank.
func (e *Engine) transferCoin(from, to *model.Household) {
	fee := txAmount * coinFeeRate
	from.CoinBalance -= txAmount + fee
	to.CoinBalance += txAmount
}
