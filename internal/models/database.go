package models

import (
	"fmt"

	"github.com/editorialstats/backend/internal/config"
	"github.com/editorialstats/backend/internal/utils"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *config.DatabaseConfig) error {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB = db
	return nil
}

func AutoMigrate() error {
	return DB.AutoMigrate(
		&User{},
		&Session{},
		&Publisher{},
		&Journal{},
		&Submission{},
		&EvidenceFile{},
		&ModerationLog{},
		&PlatformSettings{},
	)
}

func GetDB() *gorm.DB {
	return DB
}

// seedCatalog lists the pre-verified publishers and their journals.
var seedCatalog = map[string][]string{
	"Elsevier": {
		"Journal of Cleaner Production",
		"Ecological Indicators",
		"Science of The Total Environment",
		"Environmental Research",
		"Food Chemistry",
	},
	"Springer Nature": {
		"Scientific Reports",
		"Nature Communications",
		"Plant and Soil",
		"Biodiversity and Conservation",
		"Oecologia",
	},
	"Wiley": {
		"Pest Management Science",
		"Ecology Letters",
		"Global Change Biology",
		"Molecular Ecology",
		"Functional Ecology",
	},
	"MDPI": {
		"Insects",
		"Sustainability",
		"Agriculture",
		"Plants",
		"Forests",
	},
	"Frontiers": {
		"Frontiers in Ecology and Evolution",
		"Frontiers in Plant Science",
		"Frontiers in Environmental Science",
		"Frontiers in Microbiology",
		"Frontiers in Marine Science",
	},
	"Taylor & Francis": {
		"International Journal of Pest Management",
		"Biocontrol Science and Technology",
		"Experimental Agriculture",
		"Agroecology and Sustainable Food Systems",
		"Plant Ecology & Diversity",
	},
	"IEEE": {
		"IEEE Access",
		"IEEE Sensors Journal",
		"IEEE Internet of Things Journal",
		"IEEE Transactions on Cybernetics",
		"IEEE Robotics and Automation Letters",
	},
	"American Chemical Society": {
		"Journal of Agricultural and Food Chemistry",
		"Environmental Science & Technology",
		"ACS Omega",
		"ACS Sustainable Chemistry & Engineering",
		"Analytical Chemistry",
	},
}

// SeedDefaultData creates the verified publisher/journal catalog if the
// publishers table is empty. Idempotent.
func SeedDefaultData() error {
	var count int64
	DB.Model(&Publisher{}).Count(&count)
	if count > 0 {
		return nil
	}

	for publisherName, journals := range seedCatalog {
		publisher := Publisher{
			PublisherID: utils.NewID("pub"),
			Name:        publisherName,
			IsUserAdded: false,
			IsVerified:  true,
		}
		if err := DB.Create(&publisher).Error; err != nil {
			return err
		}

		for _, journalName := range journals {
			journal := Journal{
				JournalID:   utils.NewID("journal"),
				Name:        journalName,
				PublisherID: publisher.PublisherID,
				IsUserAdded: false,
				IsVerified:  true,
			}
			if err := DB.Create(&journal).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
