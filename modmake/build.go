package main

import (
	. "github.com/saylorsolutions/modmake"
)

const (
	redshirtVersion = "1.0.0"
)

func main() {
	b := NewBuild()
	b.Generate().DependsOnRunner("tidy", "", Go().ModTidy())

	redshirt := NewAppBuild("redshirt", "cmd/redshirt", redshirtVersion)
	redshirt.Build(func(gb *GoBuild) {
		gb.
			StripDebugSymbols().
			SetVariable("main", "version", redshirtVersion).
			CgoEnabled(false)
	})
	redshirt.Variant("windows", "amd64")
	redshirt.Variant("linux", "amd64")
	redshirt.Variant("linux", "arm64")
	redshirt.Variant("darwin", "amd64")
	redshirt.Variant("darwin", "arm64")
	b.ImportApp(redshirt)

	b.Execute()
}
