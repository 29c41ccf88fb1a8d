package report

import (
	"fmt"
	"sort"
	"time"

	"minimart/internal/model"

	"github.com/shopspring/decimal"
)

const (
	topProductLimit  = 5
	categoryMixLimit = 5
	lowStockLimit    = 6
	topCustomerLimit = 5
	recentOrderLimit = 6

	uncategorised = "Uncategorised"
)

type ProductRank struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type CategoryShare struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
	Percent  int             `json:"percent"`
}

// Overview is the dashboard snapshot.
type Overview struct {
	RevenueTotal        decimal.Decimal    `json:"revenueTotal"`
	PendingOrders       int                `json:"pendingOrders"`
	CustomersServed     int                `json:"customersServed"`
	CustomerCount       int                `json:"customerCount"`
	DailySales          []ChartPoint       `json:"dailySales"`
	SalesChart          LineChart          `json:"salesChart"`
	RevenueLast7Days    decimal.Decimal    `json:"revenueLast7Days"`
	OrdersLast7Days     int                `json:"ordersLast7Days"`
	AverageOrderValue   decimal.Decimal    `json:"averageOrderValue"`
	OverallAverageOrder decimal.Decimal    `json:"overallAverageOrderValue"`
	TopProducts         []ProductRank      `json:"topProducts"`
	CategoryMix         []CategoryShare    `json:"categoryMix"`
	LowStock            []model.StockLevel `json:"lowStock"`
	TopCustomers        []model.Customer   `json:"topCustomers"`
	RecentOrders        []model.Order      `json:"recentOrders"`
	LowStockThreshold   int                `json:"lowStockThreshold"`
}

// Dashboard aggregates orders, customers and stock rows into the overview.
// Revenue figures count PAID orders only; product and category rankings count
// every order line with a positive quantity.
func Dashboard(orders []model.Order, customers []model.Customer, stock []model.StockLevel, now time.Time, lowStockThreshold int) Overview {
	loc := now.Location()
	ov := Overview{
		RevenueTotal:      decimal.Zero,
		RevenueLast7Days:  decimal.Zero,
		CustomerCount:     len(customers),
		LowStockThreshold: lowStockThreshold,
	}

	var paidOrders []model.Order
	served := map[int64]struct{}{}
	for _, o := range orders {
		if !paid(o) {
			ov.PendingOrders++
			continue
		}
		paidOrders = append(paidOrders, o)
		ov.RevenueTotal = ov.RevenueTotal.Add(o.Total)
		if o.CustomerID != nil {
			served[*o.CustomerID] = struct{}{}
		}
	}
	ov.CustomersServed = len(served)
	ov.OverallAverageOrder = divide(ov.RevenueTotal, len(paidOrders))

	days := window(now)
	pos := make(map[string]int, len(days))
	for i, d := range days {
		pos[d.Key] = i
	}
	for _, o := range paidOrders {
		t, ok := o.Date(loc)
		if !ok {
			continue
		}
		if i, ok := pos[dayKey(t)]; ok {
			days[i].Revenue = days[i].Revenue.Add(o.Total)
			ov.OrdersLast7Days++
		}
	}
	ov.DailySales = make([]ChartPoint, 0, len(days))
	for _, d := range days {
		ov.RevenueLast7Days = ov.RevenueLast7Days.Add(d.Revenue)
		v, _ := d.Revenue.Float64()
		ov.DailySales = append(ov.DailySales, ChartPoint{Label: d.Label, Value: v})
	}
	ov.SalesChart = BuildLineChart(ov.DailySales, ChartWidth, ChartHeight, ChartPadding)
	ov.AverageOrderValue = divide(ov.RevenueLast7Days, ov.OrdersLast7Days)

	ov.TopProducts = topProducts(orders)
	ov.CategoryMix = categoryMix(orders)
	ov.LowStock = lowStock(stock, lowStockThreshold)
	ov.TopCustomers = topCustomers(customers)
	ov.RecentOrders = recentOrders(orders, loc)
	return ov
}

func lineRevenue(d model.OrderDetail) decimal.Decimal {
	return d.Price.Mul(decimal.NewFromInt(int64(d.Quantity)))
}

func topProducts(orders []model.Order) []ProductRank {
	byKey := map[int64]*ProductRank{}
	var keys []int64
	for _, o := range orders {
		for _, d := range o.OrderDetails {
			if d.Quantity <= 0 {
				continue
			}
			key := d.ProductID
			if d.Product != nil && d.Product.ProductID != 0 {
				key = d.Product.ProductID
			}
			r, ok := byKey[key]
			if !ok {
				r = &ProductRank{Name: detailName(d, key), Revenue: decimal.Zero}
				byKey[key] = r
				keys = append(keys, key)
			}
			r.Quantity += d.Quantity
			r.Revenue = r.Revenue.Add(lineRevenue(d))
		}
	}
	out := make([]ProductRank, 0, len(keys))
	for _, k := range keys {
		out = append(out, *byKey[k])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Quantity > out[j].Quantity })
	if len(out) > topProductLimit {
		out = out[:topProductLimit]
	}
	return out
}

func detailName(d model.OrderDetail, key int64) string {
	switch {
	case d.Product != nil && d.Product.Name != "":
		return d.Product.Name
	case d.ProductName != "":
		return d.ProductName
	default:
		return fmt.Sprintf("Product %d", key)
	}
}

func categoryMix(orders []model.Order) []CategoryShare {
	byName := map[string]*CategoryShare{}
	var names []string
	total := 0
	for _, o := range orders {
		for _, d := range o.OrderDetails {
			if d.Quantity <= 0 {
				continue
			}
			name := uncategorised
			if d.Product != nil && d.Product.CategoryLabel() != "" {
				name = d.Product.CategoryLabel()
			}
			c, ok := byName[name]
			if !ok {
				c = &CategoryShare{Name: name, Revenue: decimal.Zero}
				byName[name] = c
				names = append(names, name)
			}
			c.Quantity += d.Quantity
			c.Revenue = c.Revenue.Add(lineRevenue(d))
			total += d.Quantity
		}
	}
	out := make([]CategoryShare, 0, len(names))
	for _, n := range names {
		c := *byName[n]
		c.Percent = percent(c.Quantity, total)
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Quantity > out[j].Quantity })
	if len(out) > categoryMixLimit {
		out = out[:categoryMixLimit]
	}
	return out
}

// LowStockCount counts rows at or below threshold.
func LowStockCount(stock []model.StockLevel, threshold int) int {
	n := 0
	for _, s := range stock {
		if s.Quantity <= threshold {
			n++
		}
	}
	return n
}

func lowStock(stock []model.StockLevel, threshold int) []model.StockLevel {
	out := make([]model.StockLevel, 0)
	for _, s := range stock {
		if s.Quantity <= threshold {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Quantity < out[j].Quantity })
	if len(out) > lowStockLimit {
		out = out[:lowStockLimit]
	}
	return out
}

func topCustomers(customers []model.Customer) []model.Customer {
	out := append([]model.Customer(nil), customers...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Points > out[j].Points })
	if len(out) > topCustomerLimit {
		out = out[:topCustomerLimit]
	}
	if out == nil {
		out = []model.Customer{}
	}
	return out
}

// recentOrders sorts newest first; undated orders sink to the end.
func recentOrders(orders []model.Order, loc *time.Location) []model.Order {
	type entry struct {
		o  model.Order
		at time.Time
	}
	all := make([]entry, 0, len(orders))
	for _, o := range orders {
		t, _ := o.Date(loc)
		all = append(all, entry{o: o, at: t})
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].at.After(all[j].at) })
	if len(all) > recentOrderLimit {
		all = all[:recentOrderLimit]
	}
	out := make([]model.Order, 0, len(all))
	for _, e := range all {
		out = append(out, e.o)
	}
	return out
}
