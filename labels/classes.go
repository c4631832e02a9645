package labels

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/boyangli/sitesafety-scorer/models"
)

// DefaultFireClasses is the class map of the fire/smoke detector
func DefaultFireClasses() models.ClassNameMap {
	return models.ClassNameMap{
		0: "fire",
		1: "smoke",
	}
}

// DefaultPPEClasses is the class map of the construction hazard detector
// (people, PPE, machinery, vehicles)
func DefaultPPEClasses() models.ClassNameMap {
	return models.ClassNameMap{
		0: "Hardhat",
		1: "Mask",
		2: "NO-Hardhat",
		3: "NO-Mask",
		4: "NO-Safety Vest",
		5: "Person",
		6: "Safety Cone",
		7: "Safety Vest",
		8: "machinery",
		9: "vehicle",
	}
}

// LoadClassNames reads a detector's labels from a text file with one label per line.
// The zero-based line number is the class id.
func LoadClassNames(file string) (models.ClassNameMap, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("error opening labels file: %w", err)
	}
	defer f.Close()

	names := models.ClassNameMap{}
	scanner := bufio.NewScanner(f)
	id := 0
	for scanner.Scan() {
		names[id] = strings.TrimSpace(scanner.Text())
		id++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading labels file: %w", err)
	}
	return names, nil
}

// ClassNamesOrDefault loads the labels file if one is given, otherwise returns def
func ClassNamesOrDefault(file string, def models.ClassNameMap) (models.ClassNameMap, error) {
	if file == "" {
		return def, nil
	}
	return LoadClassNames(file)
}
