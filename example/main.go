// FILE: fusedconf/example/main.go
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"fusedconf"
)

const demoFilePath = ".demo.fusedconf.json"

func main() {
	defer func() {
		log.Println("---")
		log.Println("🧹 Cleaning up...")
		os.Remove(demoFilePath)
		log.Printf("Removed %s.", demoFilePath)
	}()

	// =========================================================================
	// PART 1: DECLARATION
	// Build the tree by hand: items, sections, bindings, hidden entries.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 1: Declaring the configuration tree...")

	c := fusedconf.New()
	c.AddItem("x", -1)
	c.AddItem("_y", -2)                                    // prefix-hidden, never serialized
	c.AddItem("z", 3, fusedconf.ItemOptions{Hidden: true}) // explicitly hidden

	hoge, err := c.AddSection("Hoge")
	if err != nil {
		log.Fatalf("❌ Failed to declare section: %v", err)
	}
	hoge.AddItem("num", 0, fusedconf.ItemOptions{
		ArgVar: []string{"-n", "--num"},
		Type:   fusedconf.Int,
	})
	str, _ := hoge.AddItem("str", "0")
	str.AddHandler(fusedconf.ItemOptions{ArgVar: []string{"-s", "--str"}})
	hoge.AddItem("home", nil, fusedconf.ItemOptions{
		ArgVar: []string{"--home"},
		EnvVar: "HOME",
	})

	hage, _ := c.AddSection("Hage", fusedconf.SectionOptions{Description: "hogehohe"})
	hage.AddItem("foo", "foo", fusedconf.ItemOptions{ArgVar: []string{"--foo"}})
	hage.AddItem("bar", false, fusedconf.ItemOptions{
		ArgVar: []string{"-b", "--bar"},
		Action: fusedconf.ActionStoreTrue,
		Help:   "store true",
	})

	moge, _ := c.AddSection("Moge", fusedconf.SectionOptions{Hidden: true})
	moge.AddItem("baz", nil)

	log.Println("✅ Tree declared.")

	// =========================================================================
	// PART 2: READ ACCESS
	// The filtered surface hides prefix-named entries; the raw surface
	// reaches everything.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 2: Reading values...")

	fmt.Println(c.ToDict())

	fmt.Println(hoge.ToDict()) // partial dump

	num, _ := hoge.Value("num") // direct access
	fmt.Println(num)

	// The raw surface returns the entry object instead of the value.
	if e, ok := hage.Entry("foo"); ok {
		fmt.Println(e.Get())
	}

	if _, err := c.Value("_y"); err != nil {
		fmt.Println("You can not access to hidden items direct")
	}
	if e, ok := c.Entry("_y"); ok {
		fmt.Println(e.Get()) // the raw surface allows hidden items
	}

	// =========================================================================
	// PART 3: RESOLUTION
	// Apply environment variables and command-line options over the tree.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 3: Resolving from environment and command line...")

	if err := c.Parse(fusedconf.ParseOptions{Args: []string{"-n", "3"}}); err != nil {
		log.Fatalf("❌ Parse failed: %v", err)
	}

	d := c.ToDict()
	fmt.Println(d)
	log.Println("✅ Resolved: -n set Hoge.num, $HOME filled Hoge.home.")

	// =========================================================================
	// PART 4: REWRITING
	// A dict can be edited and re-applied, and single values rewritten
	// through any of the access surfaces.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 4: Rewriting values...")

	if m, ok := d["Hoge"].(map[string]any); ok {
		m["num"] = 4
	}
	c.FromDict(d)

	// Four ways of rewriting a single value.
	c.SetValue("x", 34)
	if e, ok := hoge.Entry("str"); ok {
		e.Set("x")
	}
	hoge.Put("num", 42)
	hoge.Set(map[string]any{"home": nil, "hage": 0}) // "hage" only warns

	fmt.Println(c.ToDict())

	// =========================================================================
	// PART 5: SAVING AND LOADING
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 5: Saving and reloading...")

	f, err := os.Create(demoFilePath)
	if err != nil {
		log.Fatalf("❌ Failed to create %s: %v", demoFilePath, err)
	}
	if err := c.Save(f); err != nil {
		f.Close()
		log.Fatalf("❌ Failed to save: %v", err)
	}
	f.Close()

	f, err = os.Open(demoFilePath)
	if err != nil {
		log.Fatalf("❌ Failed to open %s: %v", demoFilePath, err)
	}
	if err := c.Load(f); err != nil {
		f.Close()
		log.Fatalf("❌ Failed to load: %v", err)
	}
	f.Close()
	log.Printf("✅ Round-tripped through %s.", demoFilePath)

	// =========================================================================
	// PART 6: GENERATED HELP
	// Register every option binding and print the usage text.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 6: Generated help text...")

	set := fusedconf.NewOptionSet("example", "fusedconf demo")
	if _, err := c.ToOptArgs(set); err != nil {
		log.Fatalf("❌ Failed to register options: %v", err)
	}
	if _, err := set.Parse([]string{"-h"}); !errors.Is(err, fusedconf.ErrHelp) {
		log.Fatalf("❌ Expected a help request, got: %v", err)
	}
}
