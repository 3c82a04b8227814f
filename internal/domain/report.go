package domain

import "sort"

// BaseCurrency is the currency receipts are priced in.
const BaseCurrency = "GEL"

// Report summarises the receipts attached to one or more shifts.
type Report struct {
	NumberOfReceipts int                `json:"number_of_receipts"`
	Revenue          map[string]float64 `json:"revenue"`
	SoldProductCount []NumProduct       `json:"sold_product_count"`
}

// BuildReport counts receipts, revenue and sold units across shifts.
func BuildReport(shifts ...Shift) Report {
	var (
		receipts int
		revenue  []float64
		counts   = map[string]int{}
	)
	for _, s := range shifts {
		for _, r := range s.Receipts {
			receipts++
			revenue = append(revenue, r.AmountDue())
			for _, item := range r.Items {
				countItem(counts, item)
			}
		}
	}

	sold := make([]NumProduct, 0, len(counts))
	for id, n := range counts {
		sold = append(sold, NumProduct{ProductID: id, Num: n})
	}
	sort.Slice(sold, func(i, j int) bool { return sold[i].ProductID < sold[j].ProductID })

	return Report{
		NumberOfReceipts: receipts,
		Revenue:          map[string]float64{BaseCurrency: sumMoney(revenue...)},
		SoldProductCount: sold,
	}
}

func countItem(counts map[string]int, item LineItem) {
	switch it := item.(type) {
	case ProductForReceipt:
		counts[it.ID] += it.Quantity
	case ComboForReceipt:
		for _, p := range it.Products {
			counts[p.ID] += p.Quantity * it.Quantity
		}
	case GiftForReceipt:
		counts[it.BuyProduct.ID] += it.BuyProduct.Quantity * it.Quantity
		counts[it.GiftProduct.ID] += it.GiftProduct.Quantity * it.Quantity
	}
}
