package pkg

// ModuleName is the structured log module of the tasks service.
const ModuleName = "tasks"
