// Package files provides file system discovery and output helpers.
//
// Discovery finds the tabular survey files (.csv and .xlsx) in a directory,
// skipping reserved names such as the baseline file:
//
//	discovery := files.NewDiscovery("", "original.csv")
//	tables, err := discovery.FindTabularFiles("data")
//
// Manager writes output files under a base directory, replacing each file
// only once its content has been fully written:
//
//	manager := files.NewManager("charts")
//	path, err := manager.WriteFile("all_categories.png", func(w io.Writer) error {
//	    return pie.Render(chart.PNG, w)
//	})
package files
