package settings

import "fmt"

const CmdName = "slicer"

var (
	DefaultOutputFile = fmt.Sprintf("%s.out", CmdName)
)
