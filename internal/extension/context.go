package extension

// Context is the view of the current descriptor handed to extensions.
type Context interface {
	UniqueID() string
	DisplayName() string
	// Parent returns the enclosing context, or nil at the root.
	Parent() Context
	// Method returns the test method for method-based contexts, or nil.
	Method() *Method
	ConfigurationParameter(key string) (string, bool)
	// PublishReportEntry forwards a key/value entry to the execution listener.
	PublishReportEntry(entry map[string]string)
}

// ContainerContext is the context of a container, including a test method
// node that fans out into invocations.
type ContainerContext interface {
	Context
	container()
}

// TestContext is the context of one test invocation.
type TestContext interface {
	Context
	TestInstance() any
	// TestFailure returns the primary failure recorded so far, or nil.
	TestFailure() error
	test()
}

// ContainerMarker is embedded by ContainerContext implementations.
type ContainerMarker struct{}

func (ContainerMarker) container() {}

// TestMarker is embedded by TestContext implementations.
type TestMarker struct{}

func (TestMarker) test() {}
