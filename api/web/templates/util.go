// Package templates renders the catalog fragments swapped in by htmx
package templates

import (
	"fmt"
	"net/url"

	"github.com/aouyang1/climbcraft/catalog"
)

func holdImageURL(hold catalog.Hold) string {
	return fmt.Sprintf("/holds/%s/%s/image", url.PathEscape(hold.Group), url.PathEscape(hold.Image))
}

func brandImageURL(brand catalog.Brand) string {
	return "/brands/" + brand.ID.String() + "/image"
}

func brandUIURL(brand catalog.Brand) string {
	return "/ui/brands/" + brand.ID.String()
}

// placeHoldVals is the hx-vals payload that starts placing hold.
func placeHoldVals(hold catalog.Hold) string {
	return fmt.Sprintf(`{"hold_id": %q}`, hold.ID.String())
}

type holdGroup struct {
	Name  string
	Holds []catalog.Hold
}

// groupHolds splits holds into runs sharing a group, keeping their order.
func groupHolds(holds []catalog.Hold) []holdGroup {
	var groups []holdGroup
	for _, hold := range holds {
		if n := len(groups); n > 0 && groups[n-1].Name == hold.Group {
			groups[n-1].Holds = append(groups[n-1].Holds, hold)
			continue
		}
		groups = append(groups, holdGroup{Name: hold.Group, Holds: []catalog.Hold{hold}})
	}
	return groups
}
