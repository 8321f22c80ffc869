package sanitation

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"locus/api/models"
	streamsService "locus/api/services/streams"
)

type (
	SanitationService struct {
		Initialized   bool
		StreamService *streamsService.StreamService
		Config        *models.Config
	}
)

func NewSanitationService(streamService *streamsService.StreamService, cfg *models.Config) *SanitationService {
	ss := &SanitationService{
		Initialized:   false,
		StreamService: streamService,
		Config:        cfg,
	}

	ss.Init()

	return ss
}

func (ss *SanitationService) Init() {
	// initialization if necessary
	if !ss.Initialized {
		// - spin up a go routine that will periodically
		//   run through a series of steps to ensure
		//   the system is "sanitary" ; here that means
		//   reclaiming stream sessions whose clients
		//   vanished without closing them. expiry is also
		//   enforced lazily on access, so this sweep only
		//   exists to free memory for abandoned sessions
		go func() {
			// setup cron job
			s := gocron.NewScheduler(time.UTC)

			interval := ss.Config.Streams.SweepIntervalSeconds
			if interval <= 0 {
				interval = 60
			}

			s.Every(interval).Seconds().Do(func() {
				if swept := ss.StreamService.SweepExpired(); swept > 0 {
					fmt.Printf("[%s] - Swept %d expired stream session(s)..\n", time.Now(), swept)
				}
			})

			// starts the scheduler in blocking mode, which blocks
			// the current execution path
			s.StartBlocking()
		}()

		ss.Initialized = true
		fmt.Println("Sanitation Service Initialized ..")
	}
}
