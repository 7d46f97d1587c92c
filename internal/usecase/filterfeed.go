package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"pubmedfilter/internal/domain"
	"time"

	"github.com/google/uuid"
)

const (
	acceptedTitle       = "Filtered PubMed – Head and Neck Cancer"
	acceptedDescription = "Automatically filtered PubMed RSS feed for head and neck cancer"
	rejectedTitle       = "Rejected PubMed – Head and Neck Cancer"
	rejectedDescription = "PubMed entries rejected by the head and neck cancer filter"
)

// FilterOptions задает источник и выходные пути одного прогона.
type FilterOptions struct {
	FeedURL      string
	AcceptedPath string
	RejectedPath string
	// Now используется для lastBuildDate; nil означает time.Now.
	Now func() time.Time
}

// Result содержит итоги прогона. Accepted + Rejected + Failed == Total.
type Result struct {
	Total    int
	Accepted int
	Rejected int
	Failed   int
}

// FilterFeedUseCase реализует прогон: загрузка, разбор, классификация каждой записи,
// разбиение на принятые и отклоненные и запись двух лент.
type FilterFeedUseCase struct {
	fetcher    FeedFetcher
	parser     FeedParser
	classifier Classifier
	writer     FeedWriter
	report     io.Writer
	log        *slog.Logger
	opts       FilterOptions
}

// NewFilterFeedUseCase создает UseCase. Строки отчета (ошибки записей и итоговые
// счетчики) пишутся в report, подробности - в log.
func NewFilterFeedUseCase(
	fetcher FeedFetcher,
	parser FeedParser,
	classifier Classifier,
	writer FeedWriter,
	report io.Writer,
	log *slog.Logger,
	opts FilterOptions,
) *FilterFeedUseCase {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &FilterFeedUseCase{
		fetcher:    fetcher,
		parser:     parser,
		classifier: classifier,
		writer:     writer,
		report:     report,
		log:        log,
		opts:       opts,
	}
}

// Run выполняет один прогон. Ошибка загрузки или пустая лента прерывают работу
// до записи файлов. Сбой классификации одной записи не прерывает прогон: запись
// не попадает ни в одну из лент.
func (uc *FilterFeedUseCase) Run(ctx context.Context) (Result, error) {
	const op = "usecase.FilterFeed.Run"
	start := time.Now()
	log := uc.log.With(
		slog.String("component", "pipeline"),
		slog.String("op", op),
		slog.String("run_id", uuid.NewString()),
	)
	log.Info("Run started", slog.String("url", uc.opts.FeedURL))

	entries, err := uc.fetchEntries(ctx)
	if err != nil {
		log.Error("Run aborted", slog.String("stage", "fetch"), slog.Any("error", err))
		return Result{}, err
	}
	log.Info("Feed fetched", slog.Int("entries", len(entries)))

	accepted := domain.NewChannel(acceptedTitle, uc.opts.FeedURL, acceptedDescription, uc.opts.Now)
	rejected := domain.NewChannel(rejectedTitle, uc.opts.FeedURL, rejectedDescription, uc.opts.Now)
	res := Result{Total: len(entries)}

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			log.Error("Run cancelled", slog.String("stage", "classify"), slog.Any("error", err))
			return Result{}, fmt.Errorf("%s: %w", op, err)
		}
		verdict, err := uc.classifier.Classify(ctx, ClassificationText(entry))
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				log.Error("Run cancelled", slog.String("stage", "classify"), slog.Any("error", err))
				return Result{}, fmt.Errorf("%s: %w", op, ctxErr)
			}
			res.Failed++
			fmt.Fprintf(uc.report, "Error processing entry: %v\n", err)
			log.Error("Entry skipped",
				slog.String("stage", "classify"),
				slog.Int("index", i),
				slog.String("guid", entry.ID),
				slog.Any("error", err),
			)
			continue
		}
		if verdict {
			accepted.AppendItem(entry)
			res.Accepted++
		} else {
			rejected.AppendItem(entry)
			res.Rejected++
		}
		log.Debug("Entry classified",
			slog.Int("index", i),
			slog.String("guid", entry.ID),
			slog.Bool("accepted", verdict),
		)
	}

	if err := uc.writer.Write(uc.opts.AcceptedPath, accepted); err != nil {
		log.Error("Write failed", slog.String("stage", "write"), slog.Any("error", err))
		return Result{}, fmt.Errorf("write accepted feed: %w", err)
	}
	if err := uc.writer.Write(uc.opts.RejectedPath, rejected); err != nil {
		log.Error("Write failed", slog.String("stage", "write"), slog.Any("error", err))
		return Result{}, fmt.Errorf("write rejected feed: %w", err)
	}

	fmt.Fprintf(uc.report, "Accepted papers: %d\n", res.Accepted)
	fmt.Fprintf(uc.report, "Rejected papers: %d\n", res.Rejected)
	log.Info("Run completed",
		slog.Int("total", res.Total),
		slog.Int("accepted", res.Accepted),
		slog.Int("rejected", res.Rejected),
		slog.Int("failed", res.Failed),
		slog.Duration("duration", time.Since(start)),
	)
	return res, nil
}

func (uc *FilterFeedUseCase) fetchEntries(ctx context.Context) ([]domain.Entry, error) {
	reader, err := uc.fetcher.Fetch(ctx, uc.opts.FeedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	defer reader.Close()

	entries, err := uc.parser.Parse(ctx, reader)
	if err != nil {
		return nil, fmt.Errorf("parse failed: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("parse failed: %w", domain.ErrEmptyFeed)
	}
	return entries, nil
}

// ClassificationText склеивает заголовок и аннотацию через пустую строку.
func ClassificationText(e domain.Entry) string {
	return e.Title + "\n\n" + e.Summary
}
