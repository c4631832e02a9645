package scoring

import (
	"github.com/boyangli/sitesafety-scorer/labels"
	"github.com/boyangli/sitesafety-scorer/models"
)

// Category is a semantic class used for scoring
type Category string

const (
	CategoryFire      Category = "fire"
	CategorySmoke     Category = "smoke"
	CategoryPerson    Category = "person"
	CategoryNoHardhat Category = "no_hardhat"
	CategoryNoVest    Category = "no_vest"
	CategoryMachinery Category = "machinery"
	CategoryVehicle   Category = "vehicle"
)

type categoryAliases struct {
	category Category
	aliases  labels.AliasSet
}

// Alias sets are disjoint within each detector, so a detection lands in at most one category.
var (
	fireCategories = []categoryAliases{
		{CategoryFire, labels.NewAliasSet("fire")},
		{CategorySmoke, labels.NewAliasSet("smoke")},
	}
	ppeCategories = []categoryAliases{
		{CategoryPerson, labels.NewAliasSet("person")},
		{CategoryNoHardhat, labels.NewAliasSet("no-hardhat", "nohardhat")},
		{CategoryNoVest, labels.NewAliasSet("no-safety vest", "nosafetyvest")},
		{CategoryMachinery, labels.NewAliasSet("machinery")},
		{CategoryVehicle, labels.NewAliasSet("vehicle")},
	}
)

// CategoryBundle partitions one frame's detections into the scoring categories
type CategoryBundle struct {
	Fire      models.DetectionSet
	Smoke     models.DetectionSet
	Person    models.DetectionSet
	NoHardhat models.DetectionSet
	NoVest    models.DetectionSet
	Machinery models.DetectionSet
	Vehicle   models.DetectionSet
}

// Counts returns the number of detections in each category
func (b *CategoryBundle) Counts() Counts {
	return Counts{
		Persons:      len(b.Person),
		NoHardhat:    len(b.NoHardhat),
		NoSafetyVest: len(b.NoVest),
		Machineries:  len(b.Machinery),
		Vehicles:     len(b.Vehicle),
		Fires:        len(b.Fire),
		Smokes:       len(b.Smoke),
	}
}

func (b *CategoryBundle) list(c Category) *models.DetectionSet {
	switch c {
	case CategoryFire:
		return &b.Fire
	case CategorySmoke:
		return &b.Smoke
	case CategoryPerson:
		return &b.Person
	case CategoryNoHardhat:
		return &b.NoHardhat
	case CategoryNoVest:
		return &b.NoVest
	case CategoryMachinery:
		return &b.Machinery
	case CategoryVehicle:
		return &b.Vehicle
	}
	return nil
}

// Extract resolves class names through each detector's map and sorts the detections
// into categories. Detections whose class id is missing from the map are labelled with
// the id itself, which never matches an alias.
func Extract(fire, ppe models.DetectionSet, fireNames, ppeNames models.ClassNameMap) CategoryBundle {
	var b CategoryBundle
	b.add(fire, fireNames, fireCategories)
	b.add(ppe, ppeNames, ppeCategories)
	return b
}

func (b *CategoryBundle) add(dets models.DetectionSet, names models.ClassNameMap, cats []categoryAliases) {
	for _, d := range dets {
		d.ClassName = names.Name(d.ClassID)
		for _, c := range cats {
			if c.aliases.Matches(d.ClassName) {
				list := b.list(c.category)
				*list = append(*list, d)
				break
			}
		}
	}
}
