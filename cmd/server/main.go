// Command claims-admin serves client edit sessions and carries the offline
// tooling around them.
package main

func main() {
	Execute()
}
