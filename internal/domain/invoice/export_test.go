package invoice

// DateLayout exposes the unexported date layout to the external test package.
const DateLayout = dateLayout
