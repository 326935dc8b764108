package sample

// DOCUSAURUS: Greet start
func Greet(name string) string {
	// DOCUSAURUS: GreetBody start
	return "hello " + name
	// DOCUSAURUS: GreetBody stop
}
// DOCUSAURUS: Greet stop
