package client

import (
	"bytes"
	"fmt"
	"strings"

	"compreplay/internal/common"
	"compreplay/internal/replay"
)

// DepFileTarget is one target in a make-style dependency file:
// targetName: dep dep dep
// in a text file, deps are separated by spaces or slash+newlines
type DepFileTarget struct {
	TargetName    string
	TargetDepList []string
}

// DepFile lists what a replayed compiled unit was made of, so that build tools can track it.
type DepFile struct {
	DTargets []DepFileTarget
}

// MakeDepFileFromSummary makes one target, the output file, depending on every remapped input.
func MakeDepFileFromSummary(summary replay.Summary) *DepFile {
	return &DepFile{
		DTargets: []DepFileTarget{{
			TargetName:    escapeMakefileSpaces(summary.OutputFilePath),
			TargetDepList: summary.Inputs(),
		}},
	}
}

// WriteToBytes outputs a filled dFile as text
func (dFile *DepFile) WriteToBytes() []byte {
	b := bytes.Buffer{}

	for _, dTarget := range dFile.DTargets {
		if b.Len() > 0 {
			b.WriteRune('\n')
		}
		fmt.Fprintf(&b, "%s:", dTarget.TargetName) // note that necessary escaping should be pre-done
		if len(dTarget.TargetDepList) > 0 {
			fmt.Fprintf(&b, " %s", escapeMakefileSpaces(dTarget.TargetDepList[0]))
			for _, depFileName := range dTarget.TargetDepList[1:] {
				fmt.Fprintf(&b, " \\\n  %s", escapeMakefileSpaces(depFileName))
			}
		}
		b.WriteRune('\n')
	}

	return b.Bytes()
}

func (dFile *DepFile) WriteToFile(fileName string) error {
	return common.WriteFileAtomically(fileName, dFile.WriteToBytes())
}

// escapeMakefileSpaces outputs a string with slashed spaces
func escapeMakefileSpaces(depItemName string) string {
	depItemName = strings.ReplaceAll(depItemName, "\n", "\\\n")
	depItemName = strings.ReplaceAll(depItemName, " ", "\\ ")
	depItemName = strings.ReplaceAll(depItemName, ":", "\\:")
	depItemName = strings.ReplaceAll(depItemName, "#", "\\#")
	return depItemName
}
