// Package widgets provides the host widgets used to describe marker content.
//
// Widgets are plain struct literals:
//
//	widgets.Box{
//	    Class: "pin",
//	    Children: []core.Widget{
//	        widgets.Text{Content: "Home"},
//	    },
//	}
//
// Each widget produces a [core.HostNode]. Inside a maps.AdvancedMarker the
// nodes end up in the marker's content container.
package widgets
