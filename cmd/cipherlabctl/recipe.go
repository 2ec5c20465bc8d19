package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/RowanDark/cipherlab/internal/cipher"
)

func runRecipe(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "recipe subcommand required")
		return 2
	}

	switch args[0] {
	case "save":
		return runRecipeSave(args[1:])
	case "list":
		return runRecipeList(args[1:])
	case "run":
		return runRecipeRun(args[1:])
	case "delete":
		return runRecipeDelete(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown recipe subcommand: %s\n", args[0])
		return 2
	}
}

func openRecipes(sess *session) (*cipher.RecipeManager, error) {
	rm := cipher.NewRecipeManager(sess.cfg.RecipesDir)
	rm.SetAuditLogger(sess.audit)
	if err := rm.LoadRecipes(); err != nil {
		return nil, err
	}
	return rm, nil
}

func runRecipeSave(args []string) int {
	fs := flag.NewFlagSet("recipe save", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	name := fs.String("name", "", "recipe name")
	description := fs.String("description", "", "what the recipe does")
	tags := fs.String("tags", "", "comma separated tags")
	var ops opList
	fs.Var(&ops, "op", "operation to apply, as name or name:key=value,... (repeatable)")
	reversible := fs.Bool("reversible", false, "allow the recipe to be run in reverse")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if strings.TrimSpace(*name) == "" {
		fmt.Fprintln(os.Stderr, "--name is required")
		return 2
	}
	if len(ops) == 0 {
		fmt.Fprintln(os.Stderr, "at least one -op is required")
		return 2
	}
	for _, op := range ops {
		if _, ok := cipher.GetOperation(op.Name); !ok {
			fmt.Fprintf(os.Stderr, "unknown operation: %s\n", op.Name)
			return 2
		}
	}

	sess, err := openSession("recipe", false)
	if err != nil {
		return exitCode("load config", err)
	}
	defer sess.Close()

	rm, err := openRecipes(sess)
	if err != nil {
		return exitCode("load recipes", err)
	}
	recipe := &cipher.Recipe{
		Name:        *name,
		Description: *description,
		Tags:        splitTags(*tags),
		Pipeline:    cipher.Pipeline{Operations: ops, Reversible: *reversible},
	}
	if existing, ok := rm.GetRecipe(*name); ok {
		recipe.ID = existing.ID
		recipe.CreatedAt = existing.CreatedAt
	}
	if err := rm.SaveRecipe(recipe); err != nil {
		return exitCode("save recipe", err)
	}
	fmt.Printf("Saved recipe %s (%s)\n", recipe.Name, recipe.ID)
	return 0
}

func splitTags(value string) []string {
	var tags []string
	for _, tag := range strings.Split(value, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func runRecipeList(args []string) int {
	fs := flag.NewFlagSet("recipe list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	query := fs.String("search", "", "only list recipes whose name, description or tags match")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	sess, err := openSession("recipe", false)
	if err != nil {
		return exitCode("load config", err)
	}
	defer sess.Close()

	rm, err := openRecipes(sess)
	if err != nil {
		return exitCode("load recipes", err)
	}
	recipes := rm.ListRecipes()
	if *query != "" {
		recipes = rm.SearchRecipes(*query)
	}
	if len(recipes) == 0 {
		fmt.Println("No recipes found")
		return 0
	}
	for _, r := range recipes {
		ops := make([]string, len(r.Pipeline.Operations))
		for i, op := range r.Pipeline.Operations {
			ops[i] = op.Name
		}
		fmt.Printf("%s\t%s\t%s\n", r.Name, strings.Join(ops, " -> "), r.Description)
	}
	return 0
}

func runRecipeRun(args []string) int {
	fs := flag.NewFlagSet("recipe run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var input inputSource
	input.register(fs, "raw")
	name := fs.String("name", "", "recipe name")
	reverse := fs.Bool("reverse", false, "run the inverse of the recipe")
	output := fs.String("output", "raw", "output encoding (hex, base64, raw)")
	audit := fs.Bool("audit", false, "write audit events to stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *name == "" {
		fmt.Fprintln(os.Stderr, "--name is required")
		return 2
	}
	if !validOutputFormat(*output) {
		fmt.Fprintf(os.Stderr, "unknown output format: %s\n", *output)
		return 2
	}

	sess, err := openSession("recipe", *audit)
	if err != nil {
		return exitCode("load config", err)
	}
	defer sess.Close()

	rm, err := openRecipes(sess)
	if err != nil {
		return exitCode("load recipes", err)
	}
	recipe, ok := rm.GetRecipe(*name)
	if !ok {
		fmt.Fprintf(os.Stderr, "recipe not found: %s\n", *name)
		return 1
	}
	data, err := input.read(sess.cfg.ResourcesDir)
	if err != nil {
		return exitCode("read input", err)
	}

	ctx, cancel := commandContext()
	defer cancel()

	result, err := executePipeline(ctx, sess, &recipe.Pipeline, *reverse, data)
	if err != nil {
		return exitCode("recipe run", err)
	}
	if err := writeOutput(os.Stdout, *output, result); err != nil {
		return exitCode("write output", err)
	}
	return 0
}

func runRecipeDelete(args []string) int {
	fs := flag.NewFlagSet("recipe delete", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	name := fs.String("name", "", "recipe name")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *name == "" {
		fmt.Fprintln(os.Stderr, "--name is required")
		return 2
	}

	sess, err := openSession("recipe", false)
	if err != nil {
		return exitCode("load config", err)
	}
	defer sess.Close()

	rm, err := openRecipes(sess)
	if err != nil {
		return exitCode("load recipes", err)
	}
	if err := rm.DeleteRecipe(*name); err != nil {
		return exitCode("delete recipe", err)
	}
	fmt.Printf("Deleted recipe %s\n", *name)
	return 0
}
