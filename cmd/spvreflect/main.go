// spvreflect prints a summary of the resources a SPIR-V module's entry
// points reference.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	spirvreflect "github.com/gogpu/spirvreflect"
	"github.com/gogpu/spirvreflect/ir"
)

func main() {
	jsonOut := flag.Bool("json", false, "emit machine-readable JSON instead of a text summary")
	refAll := flag.Bool("ref-all-rscs", false, "report every module resource, not only those an entry point's functions reach")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: spvreflect [-json] [-ref-all-rscs] <module.spv>")
		os.Exit(2)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "spvreflect: %v\n", err)
		os.Exit(1)
	}

	opts := spirvreflect.DefaultOptions()
	opts.RefAllRscs = *refAll

	entryPoints, err := spirvreflect.Reflect(data, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "spvreflect: %v\n", err)
		os.Exit(1)
	}

	if *jsonOut {
		printJSON(entryPoints)
		return
	}
	printText(entryPoints)
}

func printText(entryPoints []ir.EntryPoint) {
	for _, ep := range entryPoints {
		fmt.Printf("entry point %q (%s)\n", ep.Name, ep.ExecModel)
		for _, v := range ep.Vars {
			fmt.Printf("  %s\n", describeVar(v))
		}
	}
}

func describeVar(v ir.Variable) string {
	switch x := v.(type) {
	case ir.InputVariable:
		return fmt.Sprintf("input  location=%d %s", x.Location, nameOf(x.Name))
	case ir.OutputVariable:
		return fmt.Sprintf("output location=%d %s", x.Location, nameOf(x.Name))
	case ir.PushConstantVariable:
		return fmt.Sprintf("push_constant %s", nameOf(x.Name))
	case ir.DescriptorVariable:
		return fmt.Sprintf("descriptor set=%d binding=%d count=%d %T %s", x.Set, x.Binding, x.BindCount, x.DescType, nameOf(x.Name))
	case ir.SpecConstantVariable:
		return fmt.Sprintf("spec_constant id=%d %s", x.SpecId, nameOf(x.Name))
	default:
		return fmt.Sprintf("%T", v)
	}
}

func nameOf(name *string) string {
	if name == nil {
		return ""
	}
	return *name
}

// jsonEntryPoint and jsonVar give the CLI a stable, serializable shape
// independent of the ir package's sum-type interfaces, which do not
// marshal to JSON on their own.
type jsonEntryPoint struct {
	Name      string    `json:"name"`
	ExecModel string    `json:"exec_model"`
	Vars      []jsonVar `json:"vars"`
}

type jsonVar struct {
	Kind      string `json:"kind"`
	Name      string `json:"name,omitempty"`
	Location  uint32 `json:"location,omitempty"`
	Set       uint32 `json:"set,omitempty"`
	Binding   uint32 `json:"binding,omitempty"`
	BindCount uint32 `json:"bind_count,omitempty"`
	DescType  string `json:"desc_type,omitempty"`
	SpecId    uint32 `json:"spec_id,omitempty"`
}

func printJSON(entryPoints []ir.EntryPoint) {
	out := make([]jsonEntryPoint, 0, len(entryPoints))
	for _, ep := range entryPoints {
		jep := jsonEntryPoint{Name: ep.Name, ExecModel: ep.ExecModel.String()}
		for _, v := range ep.Vars {
			jep.Vars = append(jep.Vars, jsonVarOf(v))
		}
		out = append(out, jep)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "spvreflect: %v\n", err)
		os.Exit(1)
	}
}

func jsonVarOf(v ir.Variable) jsonVar {
	switch x := v.(type) {
	case ir.InputVariable:
		return jsonVar{Kind: "input", Name: nameOf(x.Name), Location: x.Location}
	case ir.OutputVariable:
		return jsonVar{Kind: "output", Name: nameOf(x.Name), Location: x.Location}
	case ir.PushConstantVariable:
		return jsonVar{Kind: "push_constant", Name: nameOf(x.Name)}
	case ir.DescriptorVariable:
		return jsonVar{
			Kind: "descriptor", Name: nameOf(x.Name),
			Set: x.Set, Binding: x.Binding, BindCount: x.BindCount,
			DescType: fmt.Sprintf("%T", x.DescType),
		}
	case ir.SpecConstantVariable:
		return jsonVar{Kind: "spec_constant", Name: nameOf(x.Name), SpecId: x.SpecId}
	default:
		return jsonVar{Kind: "unknown"}
	}
}
