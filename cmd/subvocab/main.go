package main

import (
	"bytes"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/go-shiori/go-readability"
	"github.com/subvocab/subvocab/pkg/config"
	"github.com/subvocab/subvocab/pkg/db"
	"github.com/subvocab/subvocab/pkg/ingest"
	"github.com/subvocab/subvocab/pkg/settings"
	"github.com/subvocab/subvocab/pkg/subtitle"
	"github.com/subvocab/subvocab/pkg/textparse"
	"github.com/subvocab/subvocab/pkg/vocab"

	_ "github.com/mattn/go-sqlite3"
)

func main() {
	fileFlag := flag.String("file", "", "Subtitle file (.srt, .vtt or .txt) to ingest")
	urlFlag := flag.String("url", "", "URL of an article to ingest")
	dbFlag := flag.String("db", "", "Path to SQLite database (overrides config)")
	configFlag := flag.String("config", "", "Path to YAML config file")
	titleFlag := flag.String("title", "", "Material title")
	accountFlag := flag.String("account", "", "Account name for classification and favorites")
	materialFlag := flag.Int64("material", 0, "Existing material id to display")
	favFlag := flag.Bool("favorite", false, "Add material to favorites (with -material and -account)")
	unfavFlag := flag.Bool("unfavorite", false, "Remove material from favorites (with -material and -account)")
	markFlag := flag.String("mark", "", "Classification to apply with -words: new, learning or known")
	wordsFlag := flag.String("words", "", "Comma-separated words for -mark")
	settingsFlag := flag.Bool("settings", false, "Show site settings and which are still unfilled")
	setFlag := flag.String("set", "", "Set a site setting, key=value")
	flag.Parse()

	cfg := config.MustLoad(*configFlag)
	if *dbFlag != "" {
		cfg.DBPath = *dbFlag
	}

	// Setup context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	conn, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer conn.Close()

	if err := db.InitDB(conn); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	var accountID int64
	if *accountFlag != "" {
		accountID, err = db.CreateOrGetAccount(conn, *accountFlag)
		if err != nil {
			log.Fatalf("Failed to resolve account: %v", err)
		}
	}

	switch {
	case *setFlag != "":
		if err := setSiteSetting(conn, *setFlag); err != nil {
			log.Fatalf("Failed to save setting: %v", err)
		}

	case *settingsFlag:
		if err := showSettings(conn); err != nil {
			log.Fatalf("Failed to read settings: %v", err)
		}

	case *markFlag != "":
		if accountID == 0 {
			log.Fatal("-mark requires -account")
		}
		if err := markWords(conn, accountID, *markFlag, *wordsFlag); err != nil {
			log.Fatalf("Failed to classify words: %v", err)
		}

	case *favFlag || *unfavFlag:
		if accountID == 0 || *materialFlag == 0 {
			log.Fatal("-favorite/-unfavorite require -account and -material")
		}
		if *favFlag {
			err = db.AddFavorite(conn, accountID, *materialFlag)
		} else {
			err = db.RemoveFavorite(conn, accountID, *materialFlag)
		}
		if err != nil {
			log.Fatalf("Failed to update favorites: %v", err)
		}
		fav, err := db.IsFavorited(conn, accountID, *materialFlag)
		if err != nil {
			log.Fatalf("Failed to query favorites: %v", err)
		}
		fmt.Printf("Material %d favorited: %v\n", *materialFlag, fav)

	case *materialFlag != 0:
		if err := showMaterial(conn, *materialFlag, accountID); err != nil {
			log.Fatalf("Failed to display material: %v", err)
		}

	case *fileFlag != "":
		lines, err := subtitle.ExtractFile(*fileFlag)
		if err != nil {
			log.Fatalf("Failed to read subtitles: %v", err)
		}
		title := *titleFlag
		if title == "" {
			title = *fileFlag
		}
		if err := ingestMaterial(ctx, conn, cfg, accountID, title, "", lines); err != nil {
			log.Fatalf("Ingestion failed: %v", err)
		}

	case *urlFlag != "":
		title, lines, err := fetchArticle(ctx, cfg, *urlFlag)
		if err != nil {
			log.Fatalf("Failed to fetch article: %v", err)
		}
		if *titleFlag != "" {
			title = *titleFlag
		}
		if err := ingestMaterial(ctx, conn, cfg, accountID, title, *urlFlag, lines); err != nil {
			log.Fatalf("Ingestion failed: %v", err)
		}

	default:
		log.Fatal("Nothing to do: provide -file, -url, -material, -mark, -favorite/-unfavorite, -settings or -set")
	}
}

// setSiteSetting parses a key=value pair and stores it as a site setting.
func setSiteSetting(conn *sql.DB, pair string) error {
	name, value, ok := strings.Cut(pair, "=")
	if !ok {
		return fmt.Errorf("expected key=value, got %q", pair)
	}
	svc := &settings.Service{DB: conn}
	current, _, err := svc.SiteSetting(settings.Key(name))
	if err != nil {
		return err
	}

	s := settings.Setting{Key: current.Key, Type: current.Type}
	switch current.Type {
	case settings.TypeString:
		s.String = value
	case settings.TypeInt:
		s.Int, err = strconv.ParseInt(value, 10, 64)
	case settings.TypeBool:
		s.Bool, err = strconv.ParseBool(value)
	default:
		return fmt.Errorf("unknown setting key %q", name)
	}
	if err != nil {
		return fmt.Errorf("parse value for %s: %w", name, err)
	}

	saved, err := svc.InsertSiteSettings([]settings.Setting{s})
	if err != nil {
		return err
	}
	if saved == 0 {
		return fmt.Errorf("value for %s was empty, nothing saved", name)
	}
	fmt.Printf("Setting %s saved.\n", name)
	return nil
}

// showSettings prints the filled site settings and lists the unfilled keys.
func showSettings(conn *sql.DB) error {
	rows, err := db.GetSettings(conn, db.SiteOwnerID)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(rows))
	for key := range rows {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		row := rows[key]
		switch settings.Type(row.Type) {
		case settings.TypeInt:
			fmt.Printf("%s = %d\n", key, row.IntValue)
		case settings.TypeBool:
			fmt.Printf("%s = %v\n", key, row.BoolValue)
		default:
			fmt.Printf("%s = %s\n", key, row.StringValue)
		}
	}

	svc := &settings.Service{DB: conn}
	unfilled, err := svc.UnfilledSiteSettings()
	if err != nil {
		return err
	}
	for _, s := range unfilled {
		fmt.Printf("%s (unfilled)\n", s.Key)
	}
	return nil
}

// markWords applies one explicit classification to a comma-separated word list.
func markWords(conn *sql.DB, accountID int64, typeName, rawWords string) error {
	t, err := vocab.ParseWordType(typeName)
	if err != nil {
		return err
	}
	var words []string
	for _, w := range strings.Split(rawWords, ",") {
		if key := textparse.Normalize(strings.TrimSpace(w)); key != "" {
			words = append(words, key)
		}
	}
	if len(words) == 0 {
		return fmt.Errorf("no words given (use -words)")
	}
	svc := &vocab.Service{Store: &db.VocabStore{DB: conn}}
	if err := svc.Classify(accountID, words, t); err != nil {
		return err
	}
	fmt.Printf("Marked %d words as %s.\n", len(words), t)
	return nil
}

// ingestMaterial creates a material, runs the concurrent ingester over its
// lines and prints the resulting statistics.
func ingestMaterial(ctx context.Context, conn *sql.DB, cfg config.Config, ownerID int64, title, sourceURL string, lines []string) error {
	if len(lines) == 0 {
		fmt.Println("No words found in input.")
		return nil
	}

	materialID, err := db.CreateMaterial(conn, ownerID, title, sourceURL)
	if err != nil {
		return err
	}
	fmt.Printf("Material saved with ID: %d\n", materialID)

	ingester := ingest.NewIngester(conn)
	ingester.Workers = cfg.Workers
	ingester.BatchSize = cfg.BatchSize
	ingester.Logger = log.New(os.Stderr, "", log.LstdFlags)
	ingester.OnProgress = func(current, total int) {
		fmt.Printf("Processed %d/%d lines\n", current, total)
	}

	count, err := ingester.Ingest(ctx, materialID, lines)
	if err != nil {
		return err
	}
	if count == 0 {
		fmt.Println("No words found in input.")
		return nil
	}

	fmt.Printf("Processing complete. Recorded %d word occurrences.\n", count)
	return showMaterial(conn, materialID, ownerID)
}

// showMaterial prints the material's statistics, classification counters and
// favorite state the way the UI layer presents them.
func showMaterial(conn *sql.DB, materialID, accountID int64) error {
	material, err := db.GetMaterial(conn, materialID)
	if err != nil {
		return fmt.Errorf("load material %d: %w", materialID, err)
	}
	rows, err := db.GetMaterialWords(conn, materialID)
	if err != nil {
		return fmt.Errorf("load words: %w", err)
	}
	counts := make([]textparse.WordCount, len(rows))
	for i, r := range rows {
		counts[i] = textparse.WordCount{Text: r.Word, Count: r.Count}
	}

	var vocabWords []vocab.VocabWord
	if accountID != 0 {
		svc := &vocab.Service{Store: &db.VocabStore{DB: conn}}
		vocabWords, err = svc.MergeMaterial(accountID, counts)
		if err != nil {
			return fmt.Errorf("merge vocabulary: %w", err)
		}
	}
	stats := vocab.ComputeStats(counts, vocabWords)

	title := material.Title
	if title == "" {
		title = fmt.Sprintf("Material %d", material.ID)
	}
	fmt.Println("---------------------------------------------------")
	fmt.Printf("%s\n", title)
	fmt.Printf("Total words: %d\n", stats.TotalOccurrences)
	fmt.Printf("Unique words: %d\n", stats.UniqueWords)
	if stats.HasAccount {
		fmt.Printf("Learn words: %d\n", stats.LearnCount)
		fmt.Printf("Known words: %d\n", stats.KnownCount)
		fmt.Printf("Unsigned words: %d\n", stats.UnsignedCount)

		fav, err := db.IsFavorited(conn, accountID, materialID)
		if err != nil {
			return fmt.Errorf("query favorites: %w", err)
		}
		fmt.Printf("Favorited: %v\n", fav)
	}

	if keywords := topKeywords(counts, 10); len(keywords) > 0 {
		fmt.Println("Top words:")
		for _, kw := range keywords {
			fmt.Printf("  %s (%d)\n", kw.Text, kw.Count)
		}
	}
	return nil
}

// topKeywords returns the n most frequent content words of a material.
func topKeywords(counts []textparse.WordCount, n int) []textparse.WordCount {
	keywords := textparse.Keywords(counts, textparse.DefaultKeywordOptions())
	sort.SliceStable(keywords, func(i, j int) bool {
		return keywords[i].Count > keywords[j].Count
	})
	if len(keywords) > n {
		keywords = keywords[:n]
	}
	return keywords
}

// fetchArticle downloads a page and extracts its readable text, one line per
// paragraph line.
func fetchArticle(ctx context.Context, cfg config.Config, rawURL string) (string, []string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return "", nil, err
	}
	// Some hosts refuse requests without a browser User-Agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	client := &http.Client{Timeout: cfg.FetchTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("got status code %d", resp.StatusCode)
	}

	// Size limit guards against OOM from untrusted URLs.
	const maxBodySize = 10 * 1024 * 1024
	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", nil, err
	}
	if int64(len(bodyBytes)) >= int64(maxBodySize) {
		return "", nil, fmt.Errorf("response body exceeded %d bytes", maxBodySize)
	}

	parsedURL, _ := url.Parse(rawURL)
	article, err := readability.FromReader(bytes.NewReader(bodyBytes), parsedURL)
	if err != nil {
		return "", nil, fmt.Errorf("extract article: %w", err)
	}

	fmt.Printf("Title: %s\n", article.Title)
	fmt.Printf("Extracted text length: %d chars\n", len(article.TextContent))

	lines, err := subtitle.ExtractLines(strings.NewReader(article.TextContent), "article.txt")
	if err != nil {
		return "", nil, err
	}
	return article.Title, lines, nil
}
