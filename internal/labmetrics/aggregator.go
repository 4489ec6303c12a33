// Package labmetrics computes aggregate figures from a de-identified
// lab-services billing export. It is read-only and independent of the
// inventory side of the portal.
package labmetrics

import (
	"fmt"
	"strconv"
	"strings"

	"inventoryportal/internal/tabular"
)

// Required columns of the billing export.
const (
	ColumnPrice    = "Price"
	ColumnClient   = "Client #"
	ColumnProvider = "Ref. Phy."
	ColumnService  = "Description of Service"
)

var requiredColumns = []string{ColumnPrice, ColumnClient, ColumnProvider, ColumnService}

// MissingColumnsError names every required column absent from the upload.
// No aggregation is attempted when any are missing.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required column(s): %s", strings.Join(e.Columns, ", "))
}

// ClientCost is the price sum for one client.
type ClientCost struct {
	Client string  `json:"client"`
	Total  float64 `json:"total"`
}

// ProviderServiceCount is the order count for one (provider, service) pair.
type ProviderServiceCount struct {
	Provider string `json:"provider"`
	Service  string `json:"service"`
	Count    int    `json:"count"`
}

// ProviderCost is the price sum for one referring provider.
type ProviderCost struct {
	Provider string  `json:"provider"`
	Total    float64 `json:"total"`
}

// ServiceCount is the row count for one service description.
type ServiceCount struct {
	Service string `json:"service"`
	Count   int    `json:"count"`
}

// Report carries the five aggregates of the billing export. Group order is
// first appearance in the source file, so repeated runs over the same file
// produce identical output.
type Report struct {
	TotalCost                float64                `json:"totalCost"`
	CostPerClient            []ClientCost           `json:"costPerClient"`
	OrdersPerProviderService []ProviderServiceCount `json:"ordersPerProviderService"`
	CostPerProvider          []ProviderCost         `json:"costPerProvider"`
	ServiceCounts            []ServiceCount         `json:"serviceCounts"`
}

// Aggregate computes the report from a parsed billing export. A missing
// required column aborts with a MissingColumnsError before any aggregation.
func Aggregate(table *tabular.Table) (*Report, error) {
	var missing []string
	for _, col := range requiredColumns {
		if !table.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	priceIdx := table.ColumnIndex(ColumnPrice)
	clientIdx := table.ColumnIndex(ColumnClient)
	providerIdx := table.ColumnIndex(ColumnProvider)
	serviceIdx := table.ColumnIndex(ColumnService)

	report := &Report{}
	clientPos := map[string]int{}
	pairPos := map[string]int{}
	providerPos := map[string]int{}
	servicePos := map[string]int{}

	for i := range table.Rows {
		price := parsePrice(table.Cell(i, priceIdx))
		client := table.Cell(i, clientIdx)
		provider := table.Cell(i, providerIdx)
		service := table.Cell(i, serviceIdx)

		report.TotalCost += price

		if pos, ok := clientPos[client]; ok {
			report.CostPerClient[pos].Total += price
		} else {
			clientPos[client] = len(report.CostPerClient)
			report.CostPerClient = append(report.CostPerClient, ClientCost{Client: client, Total: price})
		}

		pairKey := provider + "\x00" + service
		if pos, ok := pairPos[pairKey]; ok {
			report.OrdersPerProviderService[pos].Count++
		} else {
			pairPos[pairKey] = len(report.OrdersPerProviderService)
			report.OrdersPerProviderService = append(report.OrdersPerProviderService, ProviderServiceCount{
				Provider: provider, Service: service, Count: 1,
			})
		}

		if pos, ok := providerPos[provider]; ok {
			report.CostPerProvider[pos].Total += price
		} else {
			providerPos[provider] = len(report.CostPerProvider)
			report.CostPerProvider = append(report.CostPerProvider, ProviderCost{Provider: provider, Total: price})
		}

		if pos, ok := servicePos[service]; ok {
			report.ServiceCounts[pos].Count++
		} else {
			servicePos[service] = len(report.ServiceCounts)
			report.ServiceCounts = append(report.ServiceCounts, ServiceCount{Service: service, Count: 1})
		}
	}

	return report, nil
}

func parsePrice(raw string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return f
}
