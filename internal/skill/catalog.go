package skill

import "github-skill-scout/internal/domain"

// CatalogVersion identifies the seed below. Bump it whenever an entry changes so cached
// normalization results keyed on it are invalidated.
const CatalogVersion = "2026.10"

// Catalog returns the built-in skill seed.
func Catalog() []domain.SkillNode {
	return []domain.SkillNode{
		// Languages
		{
			Name: "javascript", Aliases: []string{"js", "ecmascript", "es6"}, Category: domain.CategoryLanguage,
			Related:  []string{"typescript", "node", "react"},
			Expanded: []string{"javascript", "js", "ecmascript", "es6", "frontend", "web", "npm"},
		},
		{
			Name: "typescript", Aliases: []string{"ts"}, Category: domain.CategoryLanguage,
			Related:  []string{"javascript", "angular"},
			Expanded: []string{"typescript", "ts", "javascript", "types", "frontend", "web"},
		},
		{
			Name: "python", Aliases: []string{"py", "python3", "cpython"}, Category: domain.CategoryLanguage,
			Related:  []string{"django", "flask", "machine learning"},
			Expanded: []string{"python", "py", "pip", "pypi", "scripting", "data"},
		},
		{
			Name: "go", Aliases: []string{"golang"}, Category: domain.CategoryLanguage,
			Related:  []string{"kubernetes", "docker", "grpc"},
			Expanded: []string{"go", "golang", "backend", "concurrency", "cloud-native", "cli"},
		},
		{
			Name: "rust", Aliases: []string{"rustlang", "rs"}, Category: domain.CategoryLanguage,
			Related:  []string{"webassembly"},
			Expanded: []string{"rust", "rustlang", "cargo", "systems", "memory-safety", "wasm"},
		},
		{
			Name: "java", Aliases: []string{"jdk", "jvm"}, Category: domain.CategoryLanguage,
			Related:  []string{"spring", "kotlin"},
			Expanded: []string{"java", "jvm", "maven", "gradle", "backend", "enterprise"},
		},
		{
			Name: "kotlin", Aliases: []string{"kt"}, Category: domain.CategoryLanguage,
			Related:  []string{"java", "android"},
			Expanded: []string{"kotlin", "jvm", "android", "gradle", "mobile"},
		},
		{
			Name: "c#", Aliases: []string{"csharp", "c-sharp", "cs"}, Category: domain.CategoryLanguage,
			Related:  []string{".net"},
			Expanded: []string{"c#", "csharp", "dotnet", ".net", "nuget", "backend"},
		},
		{
			Name: "c++", Aliases: []string{"cpp", "cplusplus"}, Category: domain.CategoryLanguage,
			Related:  []string{"c"},
			Expanded: []string{"c++", "cpp", "cmake", "systems", "performance"},
		},
		{
			Name: "c", Aliases: []string{"ansi c", "c99"}, Category: domain.CategoryLanguage,
			Related:  []string{"c++"},
			Expanded: []string{"c", "systems", "embedded", "make"},
		},
		{
			Name: "ruby", Aliases: []string{"rb"}, Category: domain.CategoryLanguage,
			Related:  []string{"rails"},
			Expanded: []string{"ruby", "gems", "rubygems", "scripting", "web"},
		},
		{
			Name: "php", Aliases: []string{"php8"}, Category: domain.CategoryLanguage,
			Related:  []string{"laravel"},
			Expanded: []string{"php", "composer", "web", "backend"},
		},
		{
			Name: "swift", Aliases: []string{"swiftlang"}, Category: domain.CategoryLanguage,
			Related:  []string{"ios"},
			Expanded: []string{"swift", "ios", "macos", "xcode", "mobile"},
		},
		{
			Name: "html", Aliases: []string{"html5"}, Category: domain.CategoryLanguage,
			Related:  []string{"css", "javascript"},
			Expanded: []string{"html", "html5", "web", "frontend", "markup"},
		},
		{
			Name: "css", Aliases: []string{"css3", "scss", "sass"}, Category: domain.CategoryLanguage,
			Related:  []string{"html", "tailwind"},
			Expanded: []string{"css", "css3", "scss", "sass", "styling", "frontend", "web"},
		},
		{
			Name: "shell", Aliases: []string{"bash", "sh", "zsh"}, Category: domain.CategoryLanguage,
			Related:  []string{"linux"},
			Expanded: []string{"shell", "bash", "sh", "zsh", "scripting", "cli", "linux"},
		},
		{
			Name: "sql", Aliases: []string{"tsql", "plsql"}, Category: domain.CategoryLanguage,
			Related:  []string{"postgresql", "mysql"},
			Expanded: []string{"sql", "database", "query", "relational"},
		},

		// Frameworks
		{
			Name: "react", Aliases: []string{"reactjs", "react.js"}, Category: domain.CategoryFramework,
			Related:  []string{"javascript", "typescript", "nextjs"},
			Expanded: []string{"react", "reactjs", "react.js", "javascript", "jsx", "frontend", "hooks", "components", "ui"},
		},
		{
			Name: "vue", Aliases: []string{"vuejs", "vue.js"}, Category: domain.CategoryFramework,
			Related:  []string{"javascript", "nuxt"},
			Expanded: []string{"vue", "vuejs", "vue.js", "javascript", "frontend", "components", "ui"},
		},
		{
			Name: "angular", Aliases: []string{"angularjs", "ng"}, Category: domain.CategoryFramework,
			Related:  []string{"typescript", "rxjs"},
			Expanded: []string{"angular", "angularjs", "typescript", "frontend", "rxjs", "spa"},
		},
		{
			Name: "svelte", Aliases: []string{"sveltejs", "sveltekit"}, Category: domain.CategoryFramework,
			Related:  []string{"javascript"},
			Expanded: []string{"svelte", "sveltekit", "javascript", "frontend", "components"},
		},
		{
			Name: "nextjs", Aliases: []string{"next.js", "next"}, Category: domain.CategoryFramework,
			Related:  []string{"react"},
			Expanded: []string{"nextjs", "next.js", "react", "ssr", "frontend", "fullstack"},
		},
		{
			Name: "node", Aliases: []string{"nodejs", "node.js"}, Category: domain.CategoryPlatform,
			Related:  []string{"javascript", "express"},
			Expanded: []string{"node", "nodejs", "node.js", "javascript", "npm", "backend", "server"},
		},
		{
			Name: "express", Aliases: []string{"expressjs", "express.js"}, Category: domain.CategoryFramework,
			Related:  []string{"node"},
			Expanded: []string{"express", "expressjs", "node", "javascript", "backend", "api", "middleware"},
		},
		{
			Name: "django", Aliases: []string{"djangorest", "drf"}, Category: domain.CategoryFramework,
			Related:  []string{"python"},
			Expanded: []string{"django", "python", "backend", "orm", "web", "api"},
		},
		{
			Name: "flask", Aliases: []string{"flask-python"}, Category: domain.CategoryFramework,
			Related:  []string{"python"},
			Expanded: []string{"flask", "python", "backend", "microframework", "api", "web"},
		},
		{
			Name: "fastapi", Aliases: []string{"fast-api"}, Category: domain.CategoryFramework,
			Related:  []string{"python"},
			Expanded: []string{"fastapi", "python", "api", "async", "backend", "openapi"},
		},
		{
			Name: "spring", Aliases: []string{"spring boot", "springboot"}, Category: domain.CategoryFramework,
			Related:  []string{"java", "kotlin"},
			Expanded: []string{"spring", "springboot", "java", "backend", "microservices", "enterprise"},
		},
		{
			Name: "rails", Aliases: []string{"ruby on rails", "ror"}, Category: domain.CategoryFramework,
			Related:  []string{"ruby"},
			Expanded: []string{"rails", "ruby", "backend", "mvc", "web"},
		},
		{
			Name: "laravel", Aliases: []string{"laravel-php"}, Category: domain.CategoryFramework,
			Related:  []string{"php"},
			Expanded: []string{"laravel", "php", "backend", "mvc", "web"},
		},
		{
			Name: ".net", Aliases: []string{"dotnet", "asp.net", "dotnet core"}, Category: domain.CategoryFramework,
			Related:  []string{"c#"},
			Expanded: []string{".net", "dotnet", "c#", "csharp", "backend", "asp.net"},
		},
		{
			Name: "flutter", Aliases: []string{"flutterdev"}, Category: domain.CategoryFramework,
			Related:  []string{"dart"},
			Expanded: []string{"flutter", "dart", "mobile", "cross-platform", "ui"},
		},

		// Libraries
		{
			Name: "tailwind", Aliases: []string{"tailwindcss", "tailwind css"}, Category: domain.CategoryLibrary,
			Related:  []string{"css"},
			Expanded: []string{"tailwind", "tailwindcss", "css", "styling", "frontend", "utility-first"},
		},
		{
			Name: "pytorch", Aliases: []string{"torch"}, Category: domain.CategoryLibrary,
			Related:  []string{"python", "machine learning"},
			Expanded: []string{"pytorch", "torch", "python", "deep-learning", "machine-learning", "neural-networks"},
		},
		{
			Name: "tensorflow", Aliases: []string{"tf", "keras"}, Category: domain.CategoryLibrary,
			Related:  []string{"python", "machine learning"},
			Expanded: []string{"tensorflow", "keras", "python", "deep-learning", "machine-learning"},
		},
		{
			Name: "pandas", Aliases: []string{"pd"}, Category: domain.CategoryLibrary,
			Related:  []string{"python", "data science"},
			Expanded: []string{"pandas", "python", "dataframe", "data-analysis", "data"},
		},

		// Tools and platforms
		{
			Name: "docker", Aliases: []string{"containers", "dockerfile"}, Category: domain.CategoryTool,
			Related:  []string{"kubernetes"},
			Expanded: []string{"docker", "containers", "container", "devops", "dockerfile", "compose"},
		},
		{
			Name: "kubernetes", Aliases: []string{"k8s", "kube"}, Category: domain.CategoryPlatform,
			Related:  []string{"docker", "go"},
			Expanded: []string{"kubernetes", "k8s", "containers", "orchestration", "devops", "cloud-native", "helm"},
		},
		{
			Name: "git", Aliases: []string{"github", "version control"}, Category: domain.CategoryTool,
			Related:  []string{"ci"},
			Expanded: []string{"git", "github", "version-control", "vcs"},
		},
		{
			Name: "terraform", Aliases: []string{"tf-iac", "hcl"}, Category: domain.CategoryTool,
			Related:  []string{"aws"},
			Expanded: []string{"terraform", "hcl", "infrastructure-as-code", "iac", "devops", "cloud"},
		},
		{
			Name: "aws", Aliases: []string{"amazon web services", "amazon aws"}, Category: domain.CategoryPlatform,
			Related:  []string{"terraform"},
			Expanded: []string{"aws", "amazon", "cloud", "lambda", "s3", "serverless"},
		},
		{
			Name: "linux", Aliases: []string{"gnu/linux", "unix"}, Category: domain.CategoryPlatform,
			Related:  []string{"shell"},
			Expanded: []string{"linux", "unix", "kernel", "systems", "shell"},
		},
		{
			Name: "postgresql", Aliases: []string{"postgres", "pg", "psql"}, Category: domain.CategoryTool,
			Related:  []string{"sql"},
			Expanded: []string{"postgresql", "postgres", "sql", "database", "relational"},
		},
		{
			Name: "mongodb", Aliases: []string{"mongo"}, Category: domain.CategoryTool,
			Related:  []string{"node"},
			Expanded: []string{"mongodb", "mongo", "nosql", "database", "document-store"},
		},
		{
			Name: "redis", Aliases: []string{"redis-cache"}, Category: domain.CategoryTool,
			Related:  []string{"caching"},
			Expanded: []string{"redis", "cache", "caching", "key-value", "database", "in-memory"},
		},
		{
			Name: "graphql", Aliases: []string{"gql"}, Category: domain.CategoryTool,
			Related:  []string{"api"},
			Expanded: []string{"graphql", "gql", "api", "schema", "apollo"},
		},

		// Concepts
		{
			Name: "machine learning", Aliases: []string{"ml", "machine-learning"}, Category: domain.CategoryConcept,
			Related:  []string{"python", "pytorch", "tensorflow"},
			Expanded: []string{"machine learning", "machine-learning", "ml", "ai", "deep-learning", "neural-networks", "data-science"},
		},
		{
			Name: "artificial intelligence", Aliases: []string{"ai"}, Category: domain.CategoryConcept,
			Related:  []string{"machine learning"},
			Expanded: []string{"artificial intelligence", "ai", "llm", "machine-learning", "agents"},
		},
		{
			Name: "natural language processing", Aliases: []string{"nlp"}, Category: domain.CategoryConcept,
			Related:  []string{"machine learning"},
			Expanded: []string{"natural language processing", "nlp", "text", "language-models", "transformers"},
		},
		{
			Name: "data science", Aliases: []string{"data-science", "datascience"}, Category: domain.CategoryConcept,
			Related:  []string{"python", "pandas"},
			Expanded: []string{"data science", "data-science", "data", "analytics", "visualization", "jupyter"},
		},
		{
			Name: "rest", Aliases: []string{"rest api", "restful"}, Category: domain.CategoryConcept,
			Related:  []string{"api", "graphql"},
			Expanded: []string{"rest", "restful", "api", "http", "openapi"},
		},
		{
			Name: "devops", Aliases: []string{"dev-ops", "sre"}, Category: domain.CategoryConcept,
			Related:  []string{"docker", "kubernetes", "ci"},
			Expanded: []string{"devops", "ci-cd", "automation", "infrastructure", "deployment"},
		},
		{
			Name: "continuous integration", Aliases: []string{"ci", "ci/cd", "cicd"}, Category: domain.CategoryConcept,
			Related:  []string{"devops", "git"},
			Expanded: []string{"continuous integration", "ci", "ci-cd", "github-actions", "pipelines", "automation"},
		},
		{
			Name: "security", Aliases: []string{"infosec", "cybersecurity", "appsec"}, Category: domain.CategoryConcept,
			Related:  []string{"linux"},
			Expanded: []string{"security", "infosec", "cybersecurity", "vulnerability", "authentication", "cryptography"},
		},
		{
			Name: "testing", Aliases: []string{"unit testing", "tdd"}, Category: domain.CategoryConcept,
			Related:  []string{"continuous integration"},
			Expanded: []string{"testing", "tests", "unit-testing", "tdd", "test-automation"},
		},
		{
			Name: "user interface", Aliases: []string{"ui", "ux", "ui/ux"}, Category: domain.CategoryConcept,
			Related:  []string{"css", "react"},
			Expanded: []string{"user interface", "ui", "ux", "design", "frontend", "accessibility"},
		},
		{
			Name: "blockchain", Aliases: []string{"web3", "crypto"}, Category: domain.CategoryConcept,
			Related:  []string{"rust", "go"},
			Expanded: []string{"blockchain", "web3", "ethereum", "smart-contracts", "solidity"},
		},
		{
			Name: "game development", Aliases: []string{"gamedev", "game-dev"}, Category: domain.CategoryConcept,
			Related:  []string{"c++", "c#"},
			Expanded: []string{"game development", "gamedev", "game-engine", "unity", "godot", "graphics"},
		},
	}
}
