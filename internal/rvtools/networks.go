package rvtools

func processNetworkInfo(dvswitchRows [][]string, dvportRows [][]string, summary *Summary) {
	if len(dvswitchRows) > 1 {
		colMap := buildColumnMap(dvswitchRows[0])
		for _, row := range dvswitchRows[1:] {
			if name := getColumnValue(row, colMap, "switch"); name != "" {
				summary.Networks = append(summary.Networks, Network{Name: name, Type: NetDvSwitch})
			}
		}
	}

	if len(dvportRows) > 1 {
		colMap := buildColumnMap(dvportRows[0])
		for _, row := range dvportRows[1:] {
			name := getColumnValue(row, colMap, "port")
			if name == "" {
				continue
			}
			summary.Networks = append(summary.Networks, Network{
				Name:     name,
				Type:     NetDvPortGroup,
				DVSwitch: getColumnValue(row, colMap, "switch"),
				VlanID:   getColumnValue(row, colMap, "vlan"),
			})
		}
	}
}
