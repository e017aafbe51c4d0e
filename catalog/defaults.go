package catalog

import (
	"strings"

	"argus/core"
)

// Built-in reference data. The maps are keyed by uppercase name; long
// descriptions keep the "short - detail" form so callers can trim them.

func defaultSensitiveTables() map[string]string {
	return map[string]string{
		// User management tables
		"USR02":      "User password table - Contains encrypted password hashes",
		"USR03":      "User authorization data - Links users to authorization profiles",
		"USR04":      "User session data - Contains login and session information",
		"USR05":      "User parameter table - Contains user configuration settings",
		"USR06":      "User master record - Contains core user account data",
		"USR10":      "User address data - Contains user contact information",
		"USR11":      "User defaults - Contains default configuration for users",
		"USR12":      "User authorization values - Contains specific authorization field values",
		"USR21":      "User substitution - Contains user substitution settings",
		"USGRP":      "User groups - Maps users to security groups",
		"USAUTH":     "User authorizations - Contains user authorization data",
		"USRSYSACTT": "User system activity - Tracks user actions in the system",

		// Authorization tables
		"AGR_USERS": "Authorization group users - Maps users to authorization groups",
		"AGR_1016":  "Authorization objects - Defines authorization object characteristics",
		"AGR_1251":  "Authorization profile parameters - Contains profile configuration",
		"AGR_HIER":  "Authorization hierarchy - Defines authorization inheritance",
		"USOBT":     "Authorization object texts - Contains object descriptions",
		"USOBX":     "Authorization object extensions - Contains extended object settings",

		// Configuration tables
		"TOBJ":  "System objects - Core system object definitions",
		"TOBJT": "System object texts - Descriptions for system objects",
		"T000":  "Client table - Contains client configuration",
		"T001":  "Company code table - Contains company code configuration",
		"TSTC":  "Transaction codes - Maps transaction codes to programs",
		"TACTZ": "User activity table - Tracks user activity timestamps",
		"TACT":  "Activity table - Defines system activities",

		// Financial tables
		"BKPF": "Accounting document header - Contains financial document headers",
		"BSEG": "Accounting document segment - Contains financial line items",
		"VBAK": "Sales document header - Contains sales order headers",
		"VBAP": "Sales document item - Contains sales order items",
		"VBRK": "Billing document header - Contains invoice headers",
		"VBRP": "Billing document item - Contains invoice line items",
		"LFA1": "Vendor master - Contains vendor master data",
		"KNA1": "Customer master - Contains customer master data",

		// Security tables
		"RSECTAB":     "Security table - Contains security configuration data",
		"RSECACTPRF":  "Security action profile - Contains security policy configurations",
		"RSECACTTPRF": "Security action type profile - Defines security action types",
	}
}

func defaultCommonTables() map[string]string {
	return map[string]string{
		// Sales and Distribution
		"VBFA": "Sales Document Flow - Contains sales process flow",
		"LIKP": "Delivery Header - Contains delivery document headers",
		"LIPS": "Delivery Item - Contains delivery document line items",

		// Material Management
		"MARA": "General Material Data - Contains material master records",
		"MARC": "Plant Data for Material - Contains plant-specific material data",
		"MAKT": "Material Descriptions - Contains material text descriptions",
		"EKKO": "Purchasing Document Header - Contains purchase order headers",
		"EKPO": "Purchasing Document Item - Contains purchase order line items",
		"MSEG": "Document Segment: Material - Contains material movement data",
		"MCHA": "Material Batch Data - Contains batch-specific material information",

		// Financial Accounting
		"BSID": "Accounting: Secondary Index for Customers - Customer line items",
		"BSIK": "Accounting: Secondary Index for Vendors - Vendor line items",
		"SKA1": "G/L Account Master - G/L account master data",
		"SKAT": "G/L Account Texts - G/L account descriptions",

		// Controlling
		"COEP": "CO Document: Line Items - Contains CO postings",
		"CSKS": "Cost Center Master Data - Contains cost center information",

		// Human Resources
		"PA0000": "HR Master Record: Actions - Employment actions",
		"PA0001": "HR Master Record: Org. Assignment - Org structure",
		"PA0002": "HR Master Record: Personal Data - Personal info",
		"PA0008": "HR Master Record: Basic Pay - Compensation data",

		// Plant Maintenance
		"EQUI":  "Equipment Master - Contains equipment master data",
		"EQKT":  "Equipment Texts - Contains equipment descriptions",
		"IFLOT": "Functional Location - Contains functional location master data",

		// Extended Warehouse Management
		"/SCWM/S_NQUAN_CD": "EWM Quantity Change Document - Records changes to stock quantities",
		"/SCWM/QUAN":       "EWM Quantity Management - Manages warehouse product quantities",
		"/SCDL/DB_PROCH_I": "Supply Chain Process Header Information - Contains process metadata",

		// General
		"T001W":  "Plants/Branches - Contains plant master data",
		"DD03L":  "Table Fields - Contains table field definitions",
		"TADIR":  "Directory of Repository Objects - Contains repository objects",
		"TVARVC": "Table of Values for Variables - Contains variable values",
	}
}

func defaultSensitiveTCodes() map[string]string {
	return map[string]string{
		// User management
		"SU01": "User maintenance - Create, modify, delete user accounts",
		"SU10": "Mass user maintenance - Modify multiple user accounts",
		"SU20": "Authorization maintenance - Define authorization objects",
		"SU21": "Authorization field maintenance - Define authorization fields",
		"SU22": "Authorization default maintenance - Define default values",
		"SU24": "Authorization proposal values - Create authorization proposals",
		"SU25": "Authorization upgrade - Update authorization data after upgrades",

		// System administration
		"SM01":        "Lock management - Control system-wide locks",
		"SM02":        "System messages - Configure system messages",
		"SM12":        "Lock entries management - Manage and release system locks",
		"SM19":        "Security audit configuration - Setup security logging",
		"SM30":        "Table maintenance - View and edit system tables",
		"SM31":        "Table maintenance generator - Configure table maintenance",
		"SM49":        "Execute external commands - Run OS level commands",
		"SM59":        "RFC destinations - Configure remote connections",
		"SM69":        "External commands - Define external command settings",
		"SICF":        "HTTP services - Configure web services and ICF settings",
		"PFCG":        "Role maintenance - Create, modify, delete roles",
		"RZ10":        "Profile maintenance - Modify system profiles",
		"RZ11":        "Profile parameter maintenance - Change system parameters",
		"RZ12":        "Transport management - Configure transports",

		// Security
		"SE16":        "Data browser - Direct table data access",
		"SE16N":       "Enhanced data browser - Direct table access with extended features",
		"SE38":        "ABAP editor - Create/modify ABAP programs",
		"SE93":        "Transaction maintenance - Create/modify transaction codes",
		"ST01":        "System trace - Analyze system performance",
		"ST02":        "Memory utilization - Monitor system memory",
		"ST03":        "Workload analysis - Performance monitoring",
		"ST05":        "SQL trace - Database access monitoring",
		"STAUTHTRACE": "Authorization trace - Track authorization checks",

		// Critical configuration
		"STAD": "System log display - View system logs",
		"SPAM": "Support package manager - Install support packages",
		"SPRO": "Customizing - IMG configuration access",
		"OB08": "Account group maintenance - Configure account groups",
		"OB28": "Document type maintenance - Configure document types",
		"OB51": "Document class maintenance - Configure document classes",
		"OB52": "Account type maintenance - Configure account types",
		"OB58": "Number range maintenance - Configure number ranges",

		// Financial
		"FBZP": "Payment program configuration - Configure payment processing",
		"FB50": "Post document - Create accounting documents",
		"F110": "Payment run - Process automatic payments",
		"F-02": "Enter document - Create accounting documents",
		"F-22": "Change document - Modify financial documents",
		"XK01": "Create vendor - Add vendor master record",
		"XK02": "Change vendor - Modify vendor master record",
		"XD01": "Create customer - Add customer master record",
		"XD02": "Change customer - Modify customer master record",
	}
}

func defaultCommonTCodes() map[string]string {
	return map[string]string{
		// Sales and Distribution
		"VA01":  "Create Sales Order - Creates a new sales order document",
		"VA02":  "Change Sales Order - Modifies an existing sales order",
		"VA03":  "Display Sales Order - Views sales order information",
		"VL01N": "Create Outbound Delivery - Creates delivery document for goods issue",
		"VL02N": "Change Outbound Delivery - Modifies delivery document",
		"VL32N": "Change Outbound Delivery (Collective) - Modifies multiple delivery documents",
		"VF01":  "Create Billing Document - Creates invoice for customer",
		"VF02":  "Change Billing Document - Modifies existing invoice",
		"VF03":  "Display Billing Document - Views invoice information",

		// Materials Management
		"ME21N": "Create Purchase Order - Creates new PO for procurement",
		"ME22N": "Change Purchase Order - Modifies existing PO",
		"ME23N": "Display Purchase Order - Views PO information",
		"MIGO":  "Goods Movement - Records goods receipt, issue, transfer",
		"MM01":  "Create Material - Creates new material master record",
		"MM02":  "Change Material - Modifies material master data",
		"MM03":  "Display Material - Views material information",
		"MASS":  "Mass Change Processing - Batch updates for multiple records",

		// Financial Accounting
		"FB01":  "Post Document - Posts financial accounting document",
		"FB03":  "Display Document - Views financial document",
		"FBL1N": "Vendor Line Items - Views vendor account transactions",
		"FBL5N": "Customer Line Items - Views customer account transactions",
		"FS10N": "G/L Account Balances - Views general ledger balances",
		"FK01":  "Create Vendor - Creates new vendor master record",
		"FK02":  "Change Vendor - Modifies vendor master data",
		"FD01":  "Create Customer - Creates new customer master record",
		"FD02":  "Change Customer - Modifies customer master data",

		// Human Resources
		"PA30": "Maintain HR Master Data - Updates employee records",
		"PA20": "Display HR Master Data - Views employee information",
		"PA40": "Personnel Actions - Processes employee status changes",

		// System
		"SM50":            "Process Overview - Monitors work processes",
		"SM51":            "List of SAP Servers - Views system landscape",
		"SM36":            "Job Definition - Schedules background jobs",
		"SM37":            "Job Overview - Monitors background jobs",
		"SMQ2":            "qRFC Monitor - Tracks queued Remote Function Calls",
		"SU53":            "Authorization Check - Diagnoses authorization failures",
		"AL11":            "SAP Directory Structure - Views file system directories",
		"S000":            "Initial Screen - System entry point menu",
		"SESSION_MANAGER": "Session Manager - Controls multiple SAP sessions",

		// General
		"SU3":  "User Profile - Maintains user settings",
		"SE11": "ABAP Dictionary - Manages database objects",
		"SE80": "Object Navigator - Browses development objects",
	}
}

func defaultCommonFields() map[string]string {
	return map[string]string{
		// Authorization fields
		"ACTVT": "Activity - Defines permitted transaction operations",
		"AUTH":  "Authorization Object - Controls access to system functions",
		"BRGRU": "Authorization Group - Groups users for access control purposes",

		// User/account fields
		"BNAME":  "User Name - Login ID for system access",
		"USTYP":  "User Type - Classification of user account",
		"PERSNO": "Personnel Number - Employee identifier in HR system",
		"USGRP":  "User Group - Grouping for authorization purposes",

		// Document fields
		"BELNR": "Document Number - Identifies accounting documents",
		"BUKRS": "Company Code - Organizational unit in financial accounting",
		"GJAHR": "Fiscal Year - Accounting period year",
		"BLART": "Document Type - Classifies accounting documents",
		"BUDAT": "Posting Date - Date for accounting purposes",

		// Financial fields
		"WRBTR": "Amount - Monetary value in document currency",
		"DMBTR": "Amount in Local Currency - Monetary value in company code currency",
		"WAERS": "Currency - Currency code for transaction",
		"MWSKZ": "Tax Code - Determines tax calculation",
		"SAKNR": "G/L Account Number - General ledger account identifier",
		"KOSTL": "Cost Center - Cost accounting identifier",

		// Sales fields
		"VBELN":  "Sales Document Number - Identifies sales transactions",
		"KUNNR":  "Customer Number - Identifier for customer account",
		"MATNR":  "Material Number - Identifier for material master",
		"KWMENG": "Order Quantity - Amount ordered in sales unit",

		// Purchase fields
		"EBELN": "Purchase Document Number - Identifies purchasing documents",
		"LIFNR": "Vendor Number - Identifier for vendor account",
		"KTOKK": "Vendor Account Group - Categorizes vendor accounts by type",

		// Material fields
		"WERKS": "Plant - Manufacturing location",
		"LGORT": "Storage Location - Inventory storage identifier",
		"MEINS": "Base Unit of Measure - Standard unit for material",
		"QUAN":  "Quantity - Numeric value of items or materials",
		"VFDAT": "Shelf Life Expiration Date - Date when material expires",

		// Status and control fields
		"GBSTK":  "Overall Processing Status - Status of document processing",
		"STATUS": "Individual Processing Status - Status indicator for processing",
		"LOEVM":  "Deletion Indicator - Marks record for deletion",
		"SPERR":  "Block Indicator - General blocking indicator",
		"SPERM":  "Material Block - Blocking reason for material",
		"SPERQ":  "Quality Inspection Block - Quality-related blocking",
		"KEY":    "Key Field - Generic identifier field",
	}
}

// defaultExcludedFields are exact field names that collide lexically with
// risky substrings (SPERM contains PERM, KEY alone is a generic identifier)
// and must never trigger a field rule.
var defaultExcludedFields = []string{"KEY", "SPERM", "SPERQ", "QUAN"}

func defaultFieldRules() []FieldRule {
	return []FieldRule{
		// Structural heuristics evaluated ahead of the keyword catalog.
		{
			Name: "security-key",
			Match: func(f string) bool {
				return strings.HasPrefix(f, "KEY_") || strings.HasSuffix(f, "_KEY") || strings.Contains(f, "SECUR")
			},
			Severity:    core.RiskHigh,
			Description: "Security credential or encryption changes: Changes to system security settings that could affect how users authenticate or data is protected. [Technical: Security key/token - Infrastructure change affecting encryption or authentication]",
		},
		{
			Name:        "permission",
			Match:       func(f string) bool { return strings.Contains(f, "PERM") },
			Exclude:     func(f string) bool { return f == "SPERM" || f == "SPERQ" },
			Severity:    core.RiskHigh,
			Description: "Access permission changes: Modifications to who can access what in the system, potentially creating security vulnerabilities. [Technical: Permission settings - Access control modification affecting security boundaries]",
		},

		// Authentication and authorization keyword family.
		regexRule("password", `\bPASS(WORD)?`, core.RiskHigh,
			"Password/credential modification - Security sensitive change affecting user authentication"),
		regexRule("authorization", `\bAUTH(ORIZATION)?`, core.RiskHigh,
			"Authorization configuration - Security permission change affecting system access control"),
		regexRule("role", `\bROLE\b`, core.RiskHigh,
			"Role configuration - Security access control change affecting user permissions scope"),
		regexRule("access", `\bACCESS`, core.RiskHigh,
			"Access control field - Field controlling system or resource availability"),
		regexRule("security-token", `KEY(TOKEN|CODE|AUTH|PASS|CRYPT|SEC)`, core.RiskHigh,
			"Security key/token - Infrastructure change affecting encryption or authentication"),
		regexRule("credential", `\bCRED(ENTIAL)?`, core.RiskHigh,
			"Credential field - Authentication data that may grant system access"),

		// Financial keyword family.
		regexRule("amount", `\bAMOUNT\b`, core.RiskHigh,
			"Financial amount field - Monetary value change affecting financial transactions"),
		regexRule("currency", `\bCURR(ENCY)?`, core.RiskHigh,
			"Currency field - Financial data type affecting monetary calculations"),
		regexRule("bank", `\bBANK`, core.RiskHigh,
			"Banking details - Payment routing information change affecting transactions"),
		regexRule("account", `\bACCOUNT`, core.RiskHigh,
			"Account field - Financial or user account record modification"),
		regexRule("payment", `\bPAYMENT`, core.RiskHigh,
			"Payment field - Financial transaction data affecting money movement"),

		// Master data keyword family.
		regexRule("vendor", `\bVENDOR`, core.RiskHigh,
			"Vendor master data field - Supplier information affecting procurement processes"),
		regexRule("customer", `\bCUSTOMER`, core.RiskHigh,
			"Customer master data field - Client information affecting sales processes"),
		regexRule("employee", `\bEMPLOYEE`, core.RiskHigh,
			"Employee data field - Personnel information affecting HR processes"),

		// System configuration keyword family.
		regexRule("config", `\bCONFIG`, core.RiskHigh,
			"Configuration field - System setting affecting overall system behavior"),
		regexRule("setting", `\bSETTING`, core.RiskHigh,
			"System setting field - Parameter controlling system functionality"),
		regexRule("parameter", `\bPARAM(ETER)?`, core.RiskHigh,
			"Parameter field - System configuration option affecting behavior"),
	}
}

func defaultEventTiers() map[string]EventTier {
	return map[string]EventTier{
		// Critical events
		"AU2": TierCritical, // Logon failed
		"AU4": TierCritical, // Transaction start failed
		"AU6": TierCritical, // RFC/CPIC logon failed
		"AU7": TierCritical, // User created
		"AU8": TierCritical, // User deleted
		"AU9": TierCritical, // User locked
		"AUA": TierCritical, // User unlocked
		"AUB": TierCritical, // User authorization changed
		"AUE": TierCritical, // Audit configuration changed
		"AUF": TierCritical, // Audit active changed
		"AUI": TierCritical, // Audit filter created
		"AUJ": TierCritical, // Audit filter deleted
		"AUL": TierCritical, // Failed RFC call
		"AUM": TierCritical, // RFC authorization failure
		"AUX": TierCritical, // Report start failed
		"BU1": TierCritical, // Password check failed
		"BU2": TierCritical, // Password changed
		"BU4": TierCritical, // Transport contains critical objects / dynamic ABAP
		"CUK": TierCritical, // C debugging activated
		"CUL": TierCritical, // Field content changed via debugger
		"CUW": TierCritical, // Program dynamic info requests
		"CUZ": TierCritical, // Generic table access by RFC
		"DU9": TierCritical, // Direct table access

		// Important events
		"AU1": TierImportant, // Logon successful
		"AUN": TierImportant, // Authorization assigned to user
		"AUO": TierImportant, // Authorization removed from user
		"AUP": TierImportant, // Successful login after previous failure
		"AUT": TierImportant, // User type changed
		"AUU": TierImportant, // User master changed
		"CUI": TierImportant, // Application started

		// Non-critical events
		"AU3": TierNonCritical, // Transaction started
		"AU5": TierNonCritical, // RFC/CPIC logon successful
		"AUC": TierNonCritical, // User logoff
		"AUK": TierNonCritical, // Successful RFC call
		"AUW": TierNonCritical, // Report started
		"AUY": TierNonCritical, // RFC statistical record
		"CUX": TierNonCritical, // Screen element changed
	}
}

func defaultEventDescriptions() map[string]string {
	return map[string]string{
		"AU1": "Logon Successful - User successfully authenticated to the system",
		"AU2": "Logon Failed - Authentication attempt failed (invalid credentials, locked user, etc.)",
		"AU3": "Transaction Started - User executed a transaction code",
		"AU4": "Transaction Start Failed - User attempted to execute a transaction but was denied",
		"AU5": "RFC/CPIC Logon Successful - Remote system successfully authenticated",
		"AU6": "RFC/CPIC Logon Failed - Remote system authentication attempt failed",
		"AU7": "User Created - New user account created in the system",
		"AU8": "User Deleted - User account removed from the system",
		"AU9": "User Locked - User account was locked (manually or automatically)",
		"AUA": "User Unlocked - User account lock was removed",
		"AUB": "User Authorization Changed - User's permissions were modified",
		"AUC": "User Logoff - User session terminated",
		"AUE": "Audit Configuration Changed - Changes to audit settings",
		"AUF": "Audit Active Changed - Audit logging was activated or deactivated",
		"AUI": "Audit Filter Created - New filter rules added to audit configuration",
		"AUJ": "Audit Filter Deleted - Filter rules removed from audit configuration",
		"AUK": "Successful RFC Call - Remote function call executed successfully",
		"AUL": "Failed RFC Call - Remote function call execution failed",
		"AUM": "RFC Authorization Failure - Remote function call denied due to lack of authorization",
		"AUN": "Authorization Assigned to User - New permissions granted to user",
		"AUO": "Authorization Removed from User - Permissions revoked from user",
		"AUP": "Successful Login After Previous Failure - User logged in after prior failures",
		"AUT": "User Type Changed - User account type was modified",
		"AUU": "User Master Changed - General changes to user master record",
		"AUW": "Report Started - Report or program execution initiated",
		"AUX": "Report Start Failed - Report or program failed to execute (often permissions)",
		"AUY": "RFC Statistical Record - Statistical information about RFC calls",
		"BU1": "Password Check Failed - Invalid password was provided",
		"BU2": "Password Changed - User's password was modified",
		"BU4": "Transport Contains Critical Objects - Transport with security-critical objects",
		"CUI": "Application Started - Application or service launched (often Fiori/web service)",
		"CUK": "C Debugging Activated - Low-level system debugging activated",
		"CUL": "Field Content Changed - Field value modified via debugger",
		"CUW": "Program Dynamic Info Requests - Dynamic program information accessed",
		"CUX": "Screen Element Changed - UI element modification",
		"CUZ": "Generic Table Access by RFC - Remote access to database tables",
		"DU9": "Direct Table Access - Direct access to database tables (often via SE16N)",
	}
}

func defaultDebugMessageCodes() map[string]string {
	return map[string]string{
		"CU_M": "Jump to ABAP Debugger",
		"CUL":  "Field content changed in debugger",
		"BUZ":  "Variable modification in debugger",
		"CUK":  "C debugging activated",
		"CUN":  "Process stopped from debugger",
		"CUO":  "Explicit DB commit/rollback from debugger",
		"CUP":  "Non-exclusive debugging session started",
		"BU4":  "Dynamic ABAP coding",
		"DU9":  "Generic table access (e.g., SE16)",
		"AU4":  "Failed transaction start (possible authorization failure)",
	}
}

func defaultInventoryTables() map[string]string {
	return map[string]string{
		// Material master data
		"MARA": "Material Master Data",
		"MARC": "Plant Data for Material",
		"MBEW": "Material Valuation",
		"EBEW": "Sales Order Stock Valuation",
		"QBEW": "Project Stock Valuation",

		// Batch management (potency)
		"MCH1": "Batch Master",
		"MCHA": "Batch Classification Data",

		// Inventory movements
		"MSEG": "Document Segment: Material",
		"MKPF": "Header: Material Document",

		// Valuation and pricing
		"KONP": "Conditions (pricing)",
		"KONH": "Condition Header Data",
	}
}

func defaultInventoryFields() map[string]string {
	return map[string]string{
		// Potency fields
		"POTX1": "Potency value",
		"POTX2": "Potency value",
		"POTY1": "Potency value",
		"POTY2": "Potency value",

		// Valuation fields
		"STPRS": "Standard Price",
		"PEINH": "Price Unit",
		"VPRSV": "Price Control",
		"VERPR": "Moving Average Price",
		"BWTAR": "Valuation Type",
		"BWPRS": "Valuation Price",
		"LAEPR": "Last Price",

		// Quantity fields affecting valuation
		"LABST": "Unrestricted Stock",
		"INSMK": "Stock Type",
		"ERFMG": "Quantity",
		"KZBWS": "Valuation Indicator",
	}
}
