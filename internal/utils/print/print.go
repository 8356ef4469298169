// Package print renders models for debug output.
package print

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"ytdl/internal/domain/consts"
	logging "ytdl/internal/utils/logging"
)

var muPrint sync.Mutex

// CreateModelPrintout prints the fields of a struct under a header.
// taskName identifies the point in the program the printout was taken.
func CreateModelPrintout(model any, taskName string) {
	muPrint.Lock()
	defer muPrint.Unlock()

	var b strings.Builder
	b.WriteString("\n================= " + consts.ColorCyan + "Printing fields for: " + consts.ColorReset + taskName + " =================\n\n")
	b.WriteString(printStructFields(model))
	b.WriteString("\n================= " + consts.ColorYellow + "End fields for: " + consts.ColorReset + taskName + " =================\n")

	logging.P("%s", b.String())
}

// printStructFields lists the fields of a struct using reflection. Unexported fields are skipped.
func printStructFields(s any) string {
	val := reflect.ValueOf(s)

	// Dereference pointer
	if val.Kind() == reflect.Pointer {
		if val.IsNil() {
			return "[nil]\n"
		}
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		return fmt.Sprintf("Expected a struct, got %s\n", val.Kind())
	}

	typ := val.Type()
	var b strings.Builder

	for i := range val.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		fieldValue := val.Field(i)

		if fieldValue.IsZero() {
			b.WriteString(field.Name + consts.ColorRed + " [empty]\n" + consts.ColorReset)
			continue
		}
		fmt.Fprintf(&b, "%s: %v\n", field.Name, fieldValue.Interface())
	}
	return b.String()
}
