package rvtools

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func ParseFile(path string) (*Summary, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	return ParseRVTools(content)
}

// ParseRVTools summarizes the vInfo, vHost, vDatastore, dvSwitch and dvPort sheets.
// Missing sheets leave their part of the summary empty.
func ParseRVTools(rvtoolsContent []byte) (*Summary, error) {
	excelFile, err := excelize.OpenReader(bytes.NewReader(rvtoolsContent))
	if err != nil {
		return nil, fmt.Errorf("error opening Excel file: %v", err)
	}
	defer excelFile.Close()

	sheets := excelFile.GetSheetList()
	if !slices.Contains(sheets, "vInfo") && !slices.Contains(sheets, "vHost") {
		return nil, fmt.Errorf("no vInfo or vHost sheet found")
	}

	summary := &Summary{
		PowerStates:     map[string]int{},
		Os:              map[string]int{},
		HostPowerStates: map[string]int{},
	}

	zap.S().Named("rvtools").Infof("Process VMs")
	processVMInfo(readSheet(excelFile, sheets, "vInfo"), summary)

	zap.S().Named("rvtools").Infof("Process Hosts and Clusters")
	processHostInfo(readSheet(excelFile, sheets, "vHost"), summary)

	zap.S().Named("rvtools").Infof("Process Datastores")
	processDatastoreInfo(readSheet(excelFile, sheets, "vDatastore"), summary)

	zap.S().Named("rvtools").Infof("Process Networks")
	processNetworkInfo(readSheet(excelFile, sheets, "dvSwitch"), readSheet(excelFile, sheets, "dvPort"), summary)

	return summary, nil
}

func readSheet(excelFile *excelize.File, sheets []string, sheetName string) [][]string {
	if !slices.Contains(sheets, sheetName) {
		return [][]string{}
	}

	rows, err := excelFile.GetRows(sheetName)
	if err != nil {
		zap.S().Named("rvtools").Warnf("Could not read %s sheet: %v", sheetName, err)
		return [][]string{}
	}

	return rows
}
