// Command br is the CLI front-end that talks to a running brd instance
// over its HTTP surface (spec §6).
package main

func main() {
	Execute()
}
