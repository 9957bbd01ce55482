package core

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Category string
	Amount   Money
	Count    int
}

// Summary is the running total plus its per-category breakdown.
type Summary struct {
	Total      Money
	Count      int
	ByCategory []CategoryAmount
}

// Sum adds up the amounts of the given expenses.
func Sum(expenses []Expense) Money {
	var total Money
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}
