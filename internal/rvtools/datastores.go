package rvtools

const mibPerGB = 1024

func processDatastoreInfo(rows [][]string, summary *Summary) {
	if len(rows) <= 1 {
		return
	}
	colMap := buildColumnMap(rows[0])

	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		name := getColumnValue(row, colMap, "name")
		if name == "" {
			continue
		}
		summary.Datastores = append(summary.Datastores, Datastore{
			ID:              getColumnValue(row, colMap, "object id"),
			Name:            name,
			Type:            getColumnValue(row, colMap, "type"),
			TotalCapacityGB: parseIntOrZero(getColumnValue(row, colMap, "capacity mib")) / mibPerGB,
			FreeCapacityGB:  parseIntOrZero(getColumnValue(row, colMap, "free mib")) / mibPerGB,
		})
	}
}
