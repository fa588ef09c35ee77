// Command cpctl is a dev CLI for commentpilot maintenance and debugging tasks.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/chromedp/chromedp"
	"github.com/pkg/browser"

	"github.com/commentpilot/commentpilot/internal/auth"
	"github.com/commentpilot/commentpilot/internal/config"
	"github.com/commentpilot/commentpilot/internal/job"
	"github.com/commentpilot/commentpilot/internal/platform"
	"github.com/commentpilot/commentpilot/internal/session"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "bot-test":
		runBotTest()
		os.Exit(0)
	case "open":
		if len(os.Args) < 3 {
			fmt.Println("Usage: cpctl open <config|cache>")
			os.Exit(1)
		}
		runOpen(os.Args[2])
	case "login":
		if len(os.Args) < 3 {
			fmt.Println("Usage: cpctl login <platform>")
			os.Exit(1)
		}
		runLogin(os.Args[2])
	case "logout":
		if len(os.Args) < 3 {
			fmt.Println("Usage: cpctl logout <platform>")
			os.Exit(1)
		}
		runLogout(os.Args[2])
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: cpctl <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  bot-test          Open bot.sannysoft.com to audit browser fingerprint")
	fmt.Println("  open config       Open config file in default editor")
	fmt.Println("  open cache        Open cache directory in file explorer")
	fmt.Println("  login <platform>  Log in to a platform and save session cookies")
	fmt.Println("  logout <platform> Clear saved session cookies for a platform")
}

func runBotTest() {
	log.Println("Opening bot.sannysoft.com with stealth browser options...")

	opts := session.AllocatorOptions(session.Options{Headless: false})

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	defer cancel()

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	go func() {
		err := chromedp.Run(ctx,
			chromedp.Navigate("https://bot.sannysoft.com"),
		)
		if err != nil {
			log.Printf("Failed to navigate: %v", err)
		}
	}()

	fmt.Println("Press Enter to end program...")
	fmt.Scanln()

	log.Println("Done.")
}

func runOpen(target string) {
	var path string
	var err error

	switch target {
	case "config":
		path, err = config.ConfigPath()
	case "cache":
		path, err = config.CacheDir()
	default:
		fmt.Printf("Unknown target: %s\n", target)
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("Failed to get path: %v", err)
	}

	if err := browser.OpenFile(path); err != nil {
		log.Fatalf("Failed to open: %v", err)
	}
}

func runLogin(name string) {
	manager, err := buildManager(name)
	if err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Println("A browser window will open. Log in, then wait for it to close.")
	if err := manager.Login(context.Background()); err != nil {
		log.Fatalf("Login failed: %v", err)
	}
	log.Println("Login successful - cookies saved")
}

func runLogout(name string) {
	manager, err := buildManager(name)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := manager.Logout(); err != nil {
		log.Fatalf("Logout failed: %v", err)
	}
	log.Println("Cookies cleared")
}

func buildManager(name string) (*auth.Manager, error) {
	p, err := job.ParsePlatform(name)
	if err != nil {
		return nil, err
	}

	cookiePath, err := auth.CookieStorePath(p)
	if err != nil {
		return nil, fmt.Errorf("failed to get cookie store path: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}
	profileDir, err := cfg.ProfileDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve browser profile: %w", err)
	}

	variant, err := platform.For(p)
	if err != nil {
		return nil, err
	}

	return auth.NewManager(variant, auth.NewCookieStore(cookiePath), profileDir), nil
}
