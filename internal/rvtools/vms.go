package rvtools

import "sort"

func processVMInfo(rows [][]string, summary *Summary) {
	if len(rows) <= 1 {
		return
	}
	colMap := buildColumnMap(rows[0])

	vcenters := map[string]struct{}{}
	for _, row := range rows[1:] {
		if len(row) == 0 || getColumnValue(row, colMap, "vm") == "" {
			continue
		}
		if parseBooleanValue(getColumnValue(row, colMap, "template")) {
			continue
		}

		summary.TotalVMs++
		if state := getColumnValue(row, colMap, "powerstate"); state != "" {
			summary.PowerStates[state]++
		}
		if os := getColumnValue(row, colMap, "os according to the configuration file"); os != "" {
			summary.Os[os]++
		}
		summary.CPUCores += parseIntOrZero(getColumnValue(row, colMap, "cpus"))
		summary.MemoryMiB += int64(parseIntOrZero(getColumnValue(row, colMap, "memory")))

		if vc := getColumnValue(row, colMap, "vi sdk server"); vc != "" {
			vcenters[vc] = struct{}{}
		}
	}

	for vc := range vcenters {
		summary.VCenters = append(summary.VCenters, vc)
	}
	sort.Strings(summary.VCenters)
}
