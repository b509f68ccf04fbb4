package models

// KPI - карточка показателя на главной странице
type KPI struct {
	Label          string `json:"label"`
	Value          string `json:"value"`
	Trend          string `json:"trend"`
	TrendDirection string `json:"trend_direction"` // "up" или "down"
}

func (k KPI) TrendUp() bool {
	return k.TrendDirection == "up"
}

type ChartPoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type RecentOrder struct {
	ID       string `json:"id"`
	Customer string `json:"customer"`
	Date     string `json:"date"`
	Amount   string `json:"amount"`
	Status   string `json:"status"`
}

// Analytics - сводка для главной страницы панели
type Analytics struct {
	KPIs                    []KPI         `json:"kpis"`
	RevenueHistory          []ChartPoint  `json:"revenue_history"`
	OrderStatusDistribution []ChartPoint  `json:"order_status_distribution"`
	RecentOrders            []RecentOrder `json:"recent_orders"`
	TotalActiveOrders       int           `json:"total_active_orders"`
}
