package portfolio

import "fmt"

type Category string

const (
	CategoryInterfaceDesign Category = "interface-design"
	CategoryDrawings        Category = "drawings"
	CategoryAll             Category = "all"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryInterfaceDesign, CategoryDrawings, CategoryAll:
		return true
	}
	return false
}

func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}
