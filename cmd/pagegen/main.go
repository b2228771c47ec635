// Command pagegen composes landing pages from the template catalog.
//
//	pagegen list
//	pagegen compose v1-saas-modern-light --overrides overrides.jsonc -o page.html
//	pagegen compose --interactive
//	pagegen validate --catalog-dir ./catalog
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand(newSurveyPrompter()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "pagegen:", err)
		os.Exit(1)
	}
}
