package main

import "fmt"

type configCmd struct{ r *root }

// Run prints the effective configuration in rc format, suitable for
// seeding a config file.
func (c *configCmd) Run() error {
	fmt.Print(c.r.config.String())
	return nil
}
