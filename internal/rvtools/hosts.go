package rvtools

func processHostInfo(rows [][]string, summary *Summary) {
	if len(rows) <= 1 {
		return
	}
	colMap := buildColumnMap(rows[0])

	datacenters := make(map[string]struct{})
	clusterToHosts := make(map[string]map[string]struct{})

	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		host := getColumnValue(row, colMap, "host")
		if host == "" {
			continue
		}
		summary.TotalHosts++

		switch stateColor := getColumnValue(row, colMap, "config status"); stateColor {
		case "red", "yellow", "green", "gray":
			summary.HostPowerStates[stateColor]++
		default:
			summary.HostPowerStates["green"]++
		}

		if dc := getColumnValue(row, colMap, "datacenter"); dc != "" {
			datacenters[dc] = struct{}{}
		}
		cluster := getColumnValue(row, colMap, "cluster")
		if cluster == "" {
			cluster = "default"
		}
		ensureMapExists(clusterToHosts, cluster)
		clusterToHosts[cluster][host] = struct{}{}
	}

	summary.TotalDatacenters = len(datacenters)
	summary.TotalClusters = len(clusterToHosts)
	summary.HostsPerCluster = calculateHostsPerCluster(clusterToHosts)
}
