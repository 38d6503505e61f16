package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

type LogStats struct {
	TotalErrors         int
	LoginSuccess        int
	LoginFailures       int
	CheckoutSuccess     int
	CheckoutFailures    int
	PurchaseSuccess     int
	PurchaseFailures    int
	TopupSuccess        int
	CouponRejections    int
	InsufficientBalance int
	LedgerMismatches    int
	UserActivities      map[string]int
	ErrorPatterns       map[string]int
}

func main() {
	today := time.Now().Format("2006-01-02")
	logDir := "./logs"

	stats := &LogStats{
		UserActivities: make(map[string]int),
		ErrorPatterns:  make(map[string]int),
	}

	analyzeErrorLogs(filepath.Join(logDir, fmt.Sprintf("error-%s.log", today)), stats)
	analyzeInfoLogs(filepath.Join(logDir, fmt.Sprintf("info-%s.log", today)), stats)

	printReport(stats)
}

func analyzeErrorLogs(logFile string, stats *LogStats) {
	file, err := os.Open(logFile)
	if err != nil {
		fmt.Printf("Error opening log file %s: %v\n", logFile, err)
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		stats.TotalErrors++

		if strings.Contains(line, "Login failed") {
			stats.LoginFailures++
			extractUserActivity(line, stats)
		}
		if strings.Contains(line, "Checkout failed") {
			stats.CheckoutFailures++
			extractUserActivity(line, stats)
		}
		if strings.Contains(line, "Direct purchase failed") {
			stats.PurchaseFailures++
			extractUserActivity(line, stats)
		}
		if strings.Contains(line, "rejected for user") {
			stats.CouponRejections++
		}
		if strings.Contains(line, "insufficient balance") {
			stats.InsufficientBalance++
		}
		if strings.Contains(line, "Ledger mismatch") || strings.Contains(line, "Wallet ledger mismatch") {
			stats.LedgerMismatches++
		}

		extractErrorPattern(line, stats)
	}
}

func analyzeInfoLogs(logFile string, stats *LogStats) {
	file, err := os.Open(logFile)
	if err != nil {
		fmt.Printf("Error opening log file %s: %v\n", logFile, err)
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()

		if strings.Contains(line, "User logged in successfully") {
			stats.LoginSuccess++
			extractUserActivity(line, stats)
		}
		if strings.Contains(line, "Checkout completed") {
			stats.CheckoutSuccess++
			extractUserActivity(line, stats)
		}
		if strings.Contains(line, "Direct purchase completed") {
			stats.PurchaseSuccess++
			extractUserActivity(line, stats)
		}
		if strings.Contains(line, "Topup completed") {
			stats.TopupSuccess++
			extractUserActivity(line, stats)
		}
	}
}

func extractUserActivity(line string, stats *LogStats) {
	// Lines tag the account as "user ID: <n>"
	idRegex := regexp.MustCompile(`user ID: (\d+)`)
	if m := idRegex.FindStringSubmatch(line); len(m) == 2 {
		stats.UserActivities[m[1]]++
	}
}

func extractErrorPattern(line string, stats *LogStats) {
	parts := strings.Split(line, ":")
	if len(parts) > 1 {
		errorMsg := strings.TrimSpace(parts[1])
		stats.ErrorPatterns[errorMsg]++
	}
}

func printReport(stats *LogStats) {
	fmt.Println("\n=== Log Analysis Report ===")
	fmt.Println("Generated:", time.Now().Format("2006-01-02 15:04:05"))

	fmt.Println("\n1. Authentication:")
	fmt.Printf("   Successful Logins: %d\n", stats.LoginSuccess)
	fmt.Printf("   Failed Logins: %d\n", stats.LoginFailures)

	fmt.Println("\n2. Commerce:")
	fmt.Printf("   Checkouts Completed: %d\n", stats.CheckoutSuccess)
	fmt.Printf("   Checkouts Failed: %d\n", stats.CheckoutFailures)
	fmt.Printf("   Direct Purchases Completed: %d\n", stats.PurchaseSuccess)
	fmt.Printf("   Direct Purchases Failed: %d\n", stats.PurchaseFailures)
	fmt.Printf("   Topups Completed: %d\n", stats.TopupSuccess)
	fmt.Printf("   Coupon Rejections: %d\n", stats.CouponRejections)
	fmt.Printf("   Insufficient Balance Rejections: %d\n", stats.InsufficientBalance)

	fmt.Println("\n3. Integrity:")
	fmt.Printf("   Ledger Mismatches: %d\n", stats.LedgerMismatches)
	fmt.Printf("   Total Error Lines: %d\n", stats.TotalErrors)

	fmt.Println("\n4. Most Active Accounts:")
	type activity struct {
		user  string
		count int
	}
	activities := make([]activity, 0, len(stats.UserActivities))
	for user, count := range stats.UserActivities {
		activities = append(activities, activity{user, count})
	}
	sort.Slice(activities, func(i, j int) bool { return activities[i].count > activities[j].count })
	for i, a := range activities {
		if i >= 10 {
			break
		}
		fmt.Printf("   user %s: %d events\n", a.user, a.count)
	}

	fmt.Println("\n5. Top Error Patterns:")
	type pattern struct {
		msg   string
		count int
	}
	patterns := make([]pattern, 0, len(stats.ErrorPatterns))
	for msg, count := range stats.ErrorPatterns {
		patterns = append(patterns, pattern{msg, count})
	}
	sort.Slice(patterns, func(i, j int) bool { return patterns[i].count > patterns[j].count })
	for i, p := range patterns {
		if i >= 10 {
			break
		}
		fmt.Printf("   %q: %d\n", p.msg, p.count)
	}
}
